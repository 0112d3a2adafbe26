package model

import "strings"

// swagger:model User
type User struct {
	BaseModel
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Username 邮箱 @ 之前的部分，用于个人资料展示
func (u *User) Username() string {
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
