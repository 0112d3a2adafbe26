package model

import "time"

// swagger:model HomeworkProblem
type HomeworkProblem struct {
	BaseModel
	ChapterID     uint   `gorm:"not null;uniqueIndex:idx_chapter_problem" json:"chapterId"`
	ProblemNumber int    `gorm:"not null;uniqueIndex:idx_chapter_problem" json:"problemNumber"`
	Title         string `gorm:"size:500;not null" json:"title"`
	Description   string `gorm:"type:text;not null" json:"description"`
	Difficulty    string `gorm:"size:20" json:"difficulty"`
	// 仅用于评分提示词，不返回给学生
	ExpectedApproach string   `gorm:"type:text" json:"-"`
	Hints            []string `gorm:"type:text;serializer:json" json:"hints"`
}

func (HomeworkProblem) TableName() string {
	return "homework_problems"
}

// HomeworkSubmission 提交记录只追加，不更新
type HomeworkSubmission struct {
	BaseModel
	ProblemID        uint       `gorm:"index:idx_submission_problem_user;not null" json:"problemId"`
	UserID           uint       `gorm:"index:idx_submission_problem_user;not null" json:"userId"`
	Solution         *string    `gorm:"type:text" json:"solution"`
	SolutionImageURL *string    `gorm:"type:text" json:"solutionImageUrl"`
	IsCorrect        bool       `json:"isCorrect"`
	AIFeedback       string     `gorm:"type:text" json:"aiFeedback"`
	Attempts         int        `gorm:"not null" json:"attempts"`
	CompletedAt      *time.Time `json:"completedAt"`
}

func (HomeworkSubmission) TableName() string {
	return "homework_submissions"
}

// ProblemWithStatus 带当前用户作答状态的题目
type ProblemWithStatus struct {
	HomeworkProblem
	IsSolved     bool `json:"isSolved"`
	UserAttempts int  `json:"userAttempts"`
}
