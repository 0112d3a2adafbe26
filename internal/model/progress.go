package model

import "time"

// ChapterProgress 章节作业完成度，(user_id, chapter_id) 唯一，只通过 upsert 写入
type ChapterProgress struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex:idx_chapter_progress_user_chapter" json:"userId"`
	ChapterID            uint       `gorm:"not null;uniqueIndex:idx_chapter_progress_user_chapter" json:"chapterId"`
	TotalProblems        int        `json:"totalProblems"`
	SolvedProblems       int        `json:"solvedProblems"`
	CompletionPercentage int        `json:"completionPercentage"`
	IsCompleted          bool       `json:"isCompleted"`
	CompletedAt          *time.Time `json:"completedAt"`
	LastUpdated          time.Time  `json:"lastUpdated"`
}

func (ChapterProgress) TableName() string {
	return "chapter_progress"
}

// UserProgress 章节学习记录，completed 只在作业全部完成时置为 true
type UserProgress struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_user_progress_user_chapter" json:"userId"`
	CourseID         uint      `gorm:"index;not null" json:"courseId"`
	ChapterID        uint      `gorm:"not null;uniqueIndex:idx_user_progress_user_chapter" json:"chapterId"`
	Completed        bool      `json:"completed"`
	TimeSpentMinutes int       `json:"timeSpentMinutes"`
	Notes            *string   `gorm:"type:text" json:"notes"`
	LastAccessed     time.Time `json:"lastAccessed"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
