package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Chapter{},
		&ChapterVideo{},
		&ChapterTopic{},
		&HomeworkProblem{},
		&HomeworkSubmission{},
		&ChapterProgress{},
		&UserProgress{},
		&ChapterDoubt{},
	}
}
