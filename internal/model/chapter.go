package model

import "time"

// swagger:model Chapter
type Chapter struct {
	BaseModel
	CourseID        uint           `gorm:"not null;uniqueIndex:idx_course_chapter" json:"courseId"`
	ChapterNumber   int            `gorm:"not null;uniqueIndex:idx_course_chapter" json:"chapterNumber"`
	Title           string         `gorm:"size:500;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	DurationMinutes int            `json:"durationMinutes"`
	Content         []OutlineTopic `gorm:"type:text;serializer:json" json:"content"`
	// 为空表示笔记尚未生成
	AIGeneratedNotes *string `gorm:"type:text" json:"aiGeneratedNotes"`

	Videos []ChapterVideo `gorm:"foreignKey:ChapterID" json:"videos"`
	Topics []ChapterTopic `gorm:"foreignKey:ChapterID" json:"topics"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// swagger:model ChapterVideo
type ChapterVideo struct {
	BaseModel
	ChapterID    uint       `gorm:"index;not null" json:"chapterId"`
	VideoID      string     `gorm:"size:100;not null" json:"videoId"`
	Title        string     `gorm:"size:500;not null" json:"title"`
	ChannelName  string     `gorm:"size:255" json:"channelName"`
	ThumbnailURL string     `gorm:"type:text" json:"thumbnailUrl"`
	Duration     string     `gorm:"size:50" json:"duration"`
	ViewCount    int64      `json:"viewCount"`
	PublishedAt  *time.Time `json:"publishedAt"`
}

func (ChapterVideo) TableName() string {
	return "chapter_videos"
}

// swagger:model ChapterTopic
type ChapterTopic struct {
	BaseModel
	ChapterID         uint               `gorm:"index;not null" json:"chapterId"`
	TopicName         string             `gorm:"size:500;not null" json:"topicName"`
	Explanation       string             `gorm:"type:text" json:"explanation"`
	KeyPoints         []string           `gorm:"type:text;serializer:json" json:"keyPoints"`
	Examples          []TopicExample     `gorm:"type:text;serializer:json" json:"examples"`
	PracticeQuestions []PracticeQuestion `gorm:"type:text;serializer:json" json:"practiceQuestions"`
}

func (ChapterTopic) TableName() string {
	return "chapter_topics"
}
