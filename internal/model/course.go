package model

import "time"

type CourseStatus string

const (
	CourseGenerating CourseStatus = "generating"
	CourseReady      CourseStatus = "ready"
	CourseCompleted  CourseStatus = "completed"
	CourseFailed     CourseStatus = "failed"
)

// swagger:model Course
type Course struct {
	BaseModel
	UserID        uint         `gorm:"index;not null" json:"userId"`
	Title         string       `gorm:"size:500;not null" json:"title"`
	Topic         string       `gorm:"size:500;not null" json:"topic"`
	Difficulty    string       `gorm:"size:50;not null" json:"difficulty"`
	Duration      int          `gorm:"not null" json:"duration"`
	Category      string       `gorm:"size:100" json:"category"`
	Description   string       `gorm:"type:text" json:"description"`
	Language      string       `gorm:"size:50" json:"language"`
	IncludeVideos bool         `json:"includeVideos"`
	Status        CourseStatus `gorm:"size:20;index;not null" json:"status"`
	// 生成进度，ready 时为 100
	Progress      int            `gorm:"not null" json:"progress"`
	TotalChapters int            `gorm:"not null" json:"totalChapters"`
	Outline       *CourseOutline `gorm:"type:text;serializer:json" json:"-"`
	CompletedAt   *time.Time     `json:"completedAt"`

	Chapters []Chapter `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseOutline 课程大纲，生成时持久化以便中断后恢复
type CourseOutline struct {
	CourseTitle string           `json:"courseTitle"`
	Description string           `json:"description"`
	Chapters    []OutlineChapter `json:"chapters"`
}

type OutlineChapter struct {
	ChapterNumber   int            `json:"chapterNumber"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DurationMinutes int            `json:"durationMinutes"`
	Topics          []OutlineTopic `json:"topics"`
}

type OutlineTopic struct {
	TopicName         string             `json:"topicName"`
	Explanation       string             `json:"explanation"`
	KeyPoints         []string           `json:"keyPoints"`
	Examples          []TopicExample     `json:"examples"`
	PracticeQuestions []PracticeQuestion `json:"practiceQuestions"`
}

type TopicExample struct {
	Problem     string `json:"problem"`
	Solution    string `json:"solution"`
	Explanation string `json:"explanation"`
}

type PracticeQuestion struct {
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
	Hint       string `json:"hint"`
}
