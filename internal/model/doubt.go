package model

// swagger:model ChapterDoubt
type ChapterDoubt struct {
	BaseModel
	ChapterID uint   `gorm:"index;not null" json:"chapterId"`
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Question  string `gorm:"type:text;not null" json:"question"`
	Answer    string `gorm:"type:text;not null" json:"answer"`
}

func (ChapterDoubt) TableName() string {
	return "chapter_doubts"
}
