package service_test

import (
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/testutil"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"
)

// fakeGenerator 可按章节标题注入失败或阻塞
type fakeGenerator struct {
	mu    sync.Mutex
	calls map[string]int

	outline    string
	outlineErr error
	// notesErr 非 nil 时，对 failNotesFor 中的章节（为空则全部）返回错误
	notesErr     error
	failNotesFor map[string]bool
	// gate 非 nil 时，blockTitles 中的章节生成笔记前等待 gate 关闭
	gate        chan struct{}
	blockTitles map[string]bool
	homework    string
	grade       string
	hint        string
	chat        string
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		calls:    make(map[string]int),
		outline:  outlineJSON("Go Basics", "Goroutines", "Channels"),
		homework: homeworkJSON,
		grade:    `{"isCorrect": true, "feedback": "Well done", "suggestions": "none"}`,
		hint:     "  Think about the loop invariant.  ",
		chat:     "A goroutine is a lightweight thread.",
	}
}

func (f *fakeGenerator) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeGenerator) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGenerator) GenerateOutline(_ context.Context, _ service.OutlineRequest) (string, error) {
	f.record("outline")
	return f.outline, f.outlineErr
}

func (f *fakeGenerator) GenerateNotes(ctx context.Context, req service.NotesRequest) (string, error) {
	f.record("notes")
	if f.gate != nil && f.blockTitles[req.ChapterTitle] {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.notesErr != nil && (len(f.failNotesFor) == 0 || f.failNotesFor[req.ChapterTitle]) {
		return "", f.notesErr
	}
	return "Notes for " + req.ChapterTitle, nil
}

func (f *fakeGenerator) GenerateHomework(_ context.Context, _ service.HomeworkRequest) (string, error) {
	f.record("homework")
	return f.homework, nil
}

func (f *fakeGenerator) GradeSolution(_ context.Context, _ service.GradeRequest) (string, error) {
	f.record("grade")
	return f.grade, nil
}

func (f *fakeGenerator) GenerateHint(_ context.Context, _ service.HintRequest) (string, error) {
	f.record("hint")
	return f.hint, nil
}

func (f *fakeGenerator) Chat(_ context.Context, _ service.ChatRequest) (string, error) {
	f.record("chat")
	return f.chat, nil
}

type fakeVideoFinder struct {
	err error
}

func (f *fakeVideoFinder) Search(_ context.Context, q service.VideoQuery) ([]service.VideoResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	results := make([]service.VideoResult, 0, q.MaxResults+1)
	for i := 0; i <= int(q.MaxResults); i++ {
		results = append(results, service.VideoResult{
			VideoID:     fmt.Sprintf("vid%d", i),
			Title:       q.Phrase,
			ChannelName: "Channel",
			Duration:    "10m 0s",
			ViewCount:   100,
		})
	}
	return results, nil
}

func outlineJSON(titles ...string) string {
	chapters := make([]string, 0, len(titles))
	for i, title := range titles {
		chapters = append(chapters, fmt.Sprintf(`{
			"chapterNumber": %d,
			"title": %q,
			"description": "About %s",
			"durationMinutes": 30,
			"topics": [{"topicName": "%s intro", "explanation": "text", "keyPoints": ["a", "b"]}]
		}`, i+1, title, title, title))
	}
	return "```json\n{\"courseTitle\": \"Learn Go\", \"description\": \"A Go course\", \"chapters\": [" +
		strings.Join(chapters, ",") + "]}\n```"
}

const homeworkJSON = `{"problems": [
	{"title": "Easy one", "description": "d1", "difficulty": "easy", "expected_approach": "a1", "hints": ["h1", "h2", "h3"]},
	{"title": "Medium one", "description": "d2", "difficulty": "medium", "expected_approach": "a2", "hints": ["h1", "h2", "h3"]},
	{"title": "Hard one", "description": "d3", "difficulty": "hard", "expected_approach": "a3", "hints": ["h1", "h2", "h3"]}
]}`

var errAIDown = errors.New("ai unavailable")

type fixture struct {
	db        *gorm.DB
	gen       *fakeGenerator
	videos    *fakeVideoFinder
	courses   *repository.CourseRepository
	chapters  *repository.ChapterRepository
	homework  *repository.HomeworkRepository
	progress  *repository.ProgressRepository
	doubts    *repository.DoubtRepository
	executor  *service.GenerationExecutor
	enricher  *service.ChapterEnricher
	courseSvc *service.CourseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	f := &fixture{
		db:       db,
		gen:      newFakeGenerator(),
		videos:   &fakeVideoFinder{},
		courses:  repository.NewCourseRepository(db),
		chapters: repository.NewChapterRepository(db),
		homework: repository.NewHomeworkRepository(db),
		progress: repository.NewProgressRepository(db),
		doubts:   repository.NewDoubtRepository(db),
		executor: service.NewGenerationExecutor(service.NewMemoryLock()),
	}
	f.enricher = &service.ChapterEnricher{
		Generator:       f.gen,
		Videos:          f.videos,
		ChapterRepo:     f.chapters,
		HomeworkRepo:    f.homework,
		Policy:          service.DefaultEnrichmentPolicy(),
		IncludeHomework: true,
	}
	f.courseSvc = service.NewCourseService(f.courses, f.chapters, f.progress, f.gen, f.enricher, f.executor)
	t.Cleanup(func() {
		_ = f.executor.Shutdown(context.Background())
	})
	return f
}
