package repository_test

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProblemsIgnoresDuplicateNumbers(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "h@example.com")
	course := testutil.SeedCourse(t, db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, db, course.ID, 1)
	testutil.SeedProblems(t, db, chapter.ID, 2)
	repo := repository.NewHomeworkRepository(db)

	err := repo.CreateProblems([]model.HomeworkProblem{
		{ChapterID: chapter.ID, ProblemNumber: 2, Title: "dup", Description: "dup"},
		{ChapterID: chapter.ID, ProblemNumber: 3, Title: "new", Description: "new"},
	})
	require.NoError(t, err)

	problems, err := repo.ListProblems(chapter.ID)
	require.NoError(t, err)
	require.Len(t, problems, 3)
	assert.Equal(t, "Problem 2", problems[1].Title)
	assert.Equal(t, "new", problems[2].Title)
	assert.Equal(t, []string{"h1", "h2", "h3"}, problems[0].Hints)
}

func TestLatestAttemptsAndStatus(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com")
	course := testutil.SeedCourse(t, db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, db, course.ID, 1)
	problems := testutil.SeedProblems(t, db, chapter.ID, 2)
	repo := repository.NewHomeworkRepository(db)

	attempts, err := repo.LatestAttempts(problems[0].ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, attempts)

	require.NoError(t, repo.CreateSubmission(&model.HomeworkSubmission{ProblemID: problems[0].ID, UserID: user.ID, Attempts: 1}))
	require.NoError(t, repo.CreateSubmission(&model.HomeworkSubmission{ProblemID: problems[0].ID, UserID: user.ID, Attempts: 2, IsCorrect: true}))

	attempts, err = repo.LatestAttempts(problems[0].ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	list, err := repo.ListProblemsWithStatus(chapter.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsSolved)
	assert.Equal(t, 2, list[0].UserAttempts)
	assert.False(t, list[1].IsSolved)
	assert.Equal(t, 0, list[1].UserAttempts)

	_, err = repo.FindProblemInChapter(problems[0].ID, chapter.ID+100)
	assert.Error(t, err)
}
