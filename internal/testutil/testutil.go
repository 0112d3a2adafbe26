// Package testutil 提供 sqlite 内存库和种子数据，供各包测试使用
package testutil

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/pkg/database"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 每个测试独立的共享缓存内存库，单连接保证事务串行
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, email string) *model.User {
	tb.Helper()
	u := &model.User{Name: "Test User", Email: email, Password: "hashed"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, db *gorm.DB, userID uint, status model.CourseStatus) *model.Course {
	tb.Helper()
	c := &model.Course{
		UserID:     userID,
		Title:      "Go Concurrency",
		Topic:      "Go",
		Difficulty: "beginner",
		Duration:   2,
		Category:   "General",
		Language:   "English",
		Status:     status,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedChapter(tb testing.TB, db *gorm.DB, courseID uint, number int) *model.Chapter {
	tb.Helper()
	ch := &model.Chapter{
		CourseID:        courseID,
		ChapterNumber:   number,
		Title:           fmt.Sprintf("Chapter %d", number),
		Description:     "chapter description",
		DurationMinutes: 45,
	}
	if err := db.Create(ch).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return ch
}

// SeedProblems 为章节创建 n 道题，题号从 1 开始
func SeedProblems(tb testing.TB, db *gorm.DB, chapterID uint, n int) []model.HomeworkProblem {
	tb.Helper()
	problems := make([]model.HomeworkProblem, 0, n)
	for i := 1; i <= n; i++ {
		problems = append(problems, model.HomeworkProblem{
			ChapterID:        chapterID,
			ProblemNumber:    i,
			Title:            fmt.Sprintf("Problem %d", i),
			Description:      "solve it",
			Difficulty:       "medium",
			ExpectedApproach: "any",
			Hints:            []string{"h1", "h2", "h3"},
		})
	}
	if err := db.Create(&problems).Error; err != nil {
		tb.Fatalf("seed problems: %v", err)
	}
	return problems
}

// SeedCorrectSubmission 直接写入一条正确提交
func SeedCorrectSubmission(tb testing.TB, db *gorm.DB, problemID, userID uint) {
	tb.Helper()
	sub := &model.HomeworkSubmission{ProblemID: problemID, UserID: userID, IsCorrect: true, Attempts: 1, AIFeedback: "ok"}
	if err := db.Create(sub).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
}
