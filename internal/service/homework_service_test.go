package service_test

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/testutil"
	"ai_tutor_backend/internal/util"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHomeworkService(t *testing.T, f *fixture) *service.HomeworkService {
	t.Helper()
	storage := &service.StorageService{Provider: &service.LocalStorageProvider{
		Config: &config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
	}}
	return service.NewHomeworkService(f.chapters, f.courses, f.homework, f.progress, f.gen, f.enricher, storage)
}

type homeworkSetup struct {
	user     *model.User
	course   *model.Course
	chapter  *model.Chapter
	problems []model.HomeworkProblem
}

func seedHomework(t *testing.T, f *fixture, email string, problems int) homeworkSetup {
	t.Helper()
	user := testutil.SeedUser(t, f.db, email)
	course := testutil.SeedCourse(t, f.db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, f.db, course.ID, 1)
	return homeworkSetup{
		user:     user,
		course:   course,
		chapter:  chapter,
		problems: testutil.SeedProblems(t, f.db, chapter.ID, problems),
	}
}

func TestGradeAttemptsIncreaseByOne(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "attempts@example.com", 3)
	f.gen.grade = `{"isCorrect": false, "feedback": "Not quite", "suggestions": "Check edge cases"}`

	for want := 1; want <= 3; want++ {
		out, err := svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
			ProblemID: s.problems[0].ID,
			Solution:  "my answer",
		})
		require.NoError(t, err)
		assert.False(t, out.IsCorrect)
		assert.Equal(t, "Not quite", out.Feedback)
		assert.Equal(t, "Check edge cases", out.Suggestions)
		assert.Equal(t, want, out.Attempts)
	}

	var subs []model.HomeworkSubmission
	require.NoError(t, f.db.Order("id").Find(&subs).Error)
	require.Len(t, subs, 3)
	for i, sub := range subs {
		assert.Equal(t, i+1, sub.Attempts)
		require.NotNil(t, sub.Solution)
		assert.Nil(t, sub.CompletedAt)
	}

	// 答错不写入章节进度
	cp, err := f.progress.FindChapterProgress(s.user.ID, s.chapter.ID)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestGradeCorrectSolutionCompletesChapterAndCourse(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "complete@example.com", 3)
	testutil.SeedCorrectSubmission(t, f.db, s.problems[0].ID, s.user.ID)
	testutil.SeedCorrectSubmission(t, f.db, s.problems[1].ID, s.user.ID)

	out, err := svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID: s.problems[2].ID,
		Solution:  "correct answer",
	})
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.Equal(t, 1, out.Attempts)

	cp, err := f.progress.FindChapterProgress(s.user.ID, s.chapter.ID)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 3, cp.SolvedProblems)
	assert.Equal(t, 100, cp.CompletionPercentage)
	assert.True(t, cp.IsCompleted)

	ups, err := f.progress.ListUserProgress(s.user.ID, s.course.ID)
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.True(t, ups[0].Completed)

	course, err := f.courses.FindByID(s.course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseCompleted, course.Status)
	assert.Equal(t, 100, course.Progress)
	assert.NotNil(t, course.CompletedAt)
}

func TestGradeDoesNotCompleteCourseWithUnfinishedChapters(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "partial@example.com", 1)
	testutil.SeedChapter(t, f.db, s.course.ID, 2)

	_, err := svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID: s.problems[0].ID,
		Solution:  "answer",
	})
	require.NoError(t, err)

	course, err := f.courses.FindByID(s.course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseReady, course.Status)
}

func TestGradeConcurrentCorrectSubmissionsKeepOneProgressRow(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "race@example.com", 3)

	var wg sync.WaitGroup
	for _, p := range s.problems[:2] {
		wg.Add(1)
		go func(problemID uint) {
			defer wg.Done()
			_, err := svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
				ProblemID: problemID,
				Solution:  "answer",
			})
			assert.NoError(t, err)
		}(p.ID)
	}
	wg.Wait()

	var rows []model.ChapterProgress
	require.NoError(t, f.db.Where("user_id = ? AND chapter_id = ?", s.user.ID, s.chapter.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].SolvedProblems)
	assert.Equal(t, 67, rows[0].CompletionPercentage)
}

func TestGradeFallbackHeuristic(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "fallback@example.com", 2)
	f.gen.grade = "Correct! " + strings.Repeat("x", 300)

	out, err := svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID: s.problems[0].ID,
		Solution:  "answer",
	})
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.Len(t, []rune(out.Feedback), util.FallbackFeedbackLength)
	assert.True(t, strings.HasPrefix(out.Feedback, "Correct!"))
	assert.Empty(t, out.Suggestions)
}

func TestGradeValidationAndOwnership(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "validate@example.com", 1)
	ctx := context.Background()

	_, err := svc.Grade(ctx, s.user.ID, s.chapter.ID, service.SubmissionInput{ProblemID: s.problems[0].ID})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = svc.Grade(ctx, s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID:     s.problems[0].ID,
		Solution:      "text",
		SolutionImage: "data:image/png;base64,AAAA",
	})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	other := testutil.SeedChapter(t, f.db, s.course.ID, 2)
	_, err = svc.Grade(ctx, s.user.ID, other.ID, service.SubmissionInput{ProblemID: s.problems[0].ID, Solution: "x"})
	assert.ErrorIs(t, err, util.ErrProblemNotFound)

	stranger := testutil.SeedUser(t, f.db, "stranger@example.com")
	_, err = svc.Grade(ctx, stranger.ID, s.chapter.ID, service.SubmissionInput{ProblemID: s.problems[0].ID, Solution: "x"})
	assert.ErrorIs(t, err, util.ErrChapterNotFound)

	_, err = svc.Grade(ctx, s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID:     s.problems[0].ID,
		SolutionImage: "not a data url",
	})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	assert.Zero(t, f.gen.Calls("grade"))
}

func TestGradeImageSubmissionStoresFile(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "image@example.com", 1)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	out, err := svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID:     s.problems[0].ID,
		SolutionImage: dataURL,
	})
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)

	var sub model.HomeworkSubmission
	require.NoError(t, f.db.First(&sub).Error)
	assert.Nil(t, sub.Solution)
	require.NotNil(t, sub.SolutionImageURL)
	assert.True(t, strings.HasPrefix(*sub.SolutionImageURL, "/uploads/homework/"))
	assert.True(t, strings.HasSuffix(*sub.SolutionImageURL, ".png"))

	local := svc.Storage.Provider.(*service.LocalStorageProvider)
	_, err = os.Stat(filepath.Join(local.Config.LocalPath, strings.TrimPrefix(*sub.SolutionImageURL, "/uploads/")))
	assert.NoError(t, err)
}

func TestHintDoesNotPersistSubmission(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "hint@example.com", 1)

	hint, err := svc.Hint(context.Background(), s.user.ID, s.chapter.ID, s.problems[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Think about the loop invariant.", hint)

	var count int64
	require.NoError(t, f.db.Model(&model.HomeworkSubmission{}).Count(&count).Error)
	assert.Zero(t, count)

	svc.Generator = nil
	_, err = svc.Hint(context.Background(), s.user.ID, s.chapter.ID, s.problems[0].ID)
	assert.ErrorIs(t, err, util.ErrAIServiceNotConfigured)
}

func TestGenerateOnDemandIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	user := testutil.SeedUser(t, f.db, "ondemand@example.com")
	course := testutil.SeedCourse(t, f.db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, f.db, course.ID, 1)

	first, err := svc.GenerateOnDemand(context.Background(), user.ID, chapter.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.Len(t, first.Problems, 3)
	assert.Equal(t, []string{"easy", "medium", "hard"}, []string{
		first.Problems[0].Difficulty, first.Problems[1].Difficulty, first.Problems[2].Difficulty,
	})

	second, err := svc.GenerateOnDemand(context.Background(), user.ID, chapter.ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	require.Len(t, second.Problems, 3)
	assert.Equal(t, first.Problems[0].ID, second.Problems[0].ID)
	assert.Equal(t, 1, f.gen.Calls("homework"))

	count, err := f.homework.CountProblems(chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListHomeworkDefaultsProgress(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	s := seedHomework(t, f, "list-hw@example.com", 2)

	list, err := svc.List(s.user.ID, s.chapter.ID)
	require.NoError(t, err)
	require.Len(t, list.Problems, 2)
	assert.False(t, list.Problems[0].IsSolved)
	assert.Equal(t, 2, list.Progress.TotalProblems)
	assert.Zero(t, list.Progress.SolvedProblems)

	_, err = svc.Grade(context.Background(), s.user.ID, s.chapter.ID, service.SubmissionInput{
		ProblemID: s.problems[0].ID,
		Solution:  "answer",
	})
	require.NoError(t, err)

	list, err = svc.List(s.user.ID, s.chapter.ID)
	require.NoError(t, err)
	assert.True(t, list.Problems[0].IsSolved)
	assert.Equal(t, 1, list.Problems[0].UserAttempts)
	assert.Equal(t, 1, list.Progress.SolvedProblems)
	assert.Equal(t, 50, list.Progress.CompletionPercentage)
}

func TestGradeDuringGenerationKeepsCourseGenerating(t *testing.T) {
	f := newFixture(t)
	svc := newHomeworkService(t, f)
	user := testutil.SeedUser(t, f.db, "early@example.com")

	f.gen.gate = make(chan struct{})
	f.gen.blockTitles = map[string]bool{"Goroutines": true}

	created, err := f.courseSvc.StartCourseGeneration(context.Background(), user.ID, service.GenerateCourseInput{
		Topic: "Go", Difficulty: "beginner", Duration: 2,
	})
	require.NoError(t, err)

	chapters, err := f.chapters.ListByCourse(created.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	problems, err := f.homework.ListProblems(chapters[0].ID)
	require.NoError(t, err)
	require.Len(t, problems, 3)

	for _, p := range problems {
		out, err := svc.Grade(context.Background(), user.ID, chapters[0].ID, service.SubmissionInput{
			ProblemID: p.ID,
			Solution:  "correct answer",
		})
		require.NoError(t, err)
		assert.True(t, out.IsCorrect)
	}

	// 第一章已完成，但课程还有两章未生成
	stored, err := f.courses.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseGenerating, stored.Status)

	close(f.gen.gate)
	f.executor.Wait()

	stored, err = f.courses.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseReady, stored.Status)
	count, err := f.chapters.CountByCourse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGenerationFinishingAfterHomeworkCompletesCourse(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.db, "late@example.com")
	course := seedGeneratingCourse(t, f, user.ID, "One", "Two")
	for n := 1; n <= 2; n++ {
		ch := testutil.SeedChapter(t, f.db, course.ID, n)
		problems := testutil.SeedProblems(t, f.db, ch.ID, 1)
		testutil.SeedCorrectSubmission(t, f.db, problems[0].ID, user.ID)
		_, err := f.progress.RecomputeChapterProgress(user.ID, ch.ID)
		require.NoError(t, err)
		require.NoError(t, f.progress.MarkChapterCompleted(user.ID, course.ID, ch.ID))
	}

	// 生成中 MarkCompleted 不生效
	require.NoError(t, f.courses.MarkCompleted(course.ID, user.ID))
	stored, err := f.courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseGenerating, stored.Status)

	resumed, err := f.courseSvc.ResumeStalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)
	f.executor.Wait()

	stored, err = f.courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseCompleted, stored.Status)
	assert.Zero(t, f.gen.Calls("notes"))
}
