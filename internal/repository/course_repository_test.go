package repository_test

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProgressIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "m@example.com")
	course := testutil.SeedCourse(t, db, user.ID, model.CourseGenerating)
	repo := repository.NewCourseRepository(db)

	require.NoError(t, repo.UpdateProgress(course.ID, 67))
	require.NoError(t, repo.UpdateProgress(course.ID, 33))

	got, err := repo.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, got.Progress)

	require.NoError(t, repo.MarkReady(course.ID))
	got, err = repo.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseReady, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.NotNil(t, got.CompletedAt)
}

func TestStatusCountsAndOwnership(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "o@example.com")
	other := testutil.SeedUser(t, db, "x@example.com")
	c1 := testutil.SeedCourse(t, db, owner.ID, model.CourseReady)
	testutil.SeedCourse(t, db, owner.ID, model.CourseReady)
	testutil.SeedCourse(t, db, owner.ID, model.CourseCompleted)
	repo := repository.NewCourseRepository(db)

	counts, err := repo.StatusCounts(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.CourseReady])
	assert.Equal(t, int64(1), counts[model.CourseCompleted])

	_, err = repo.FindByIDForUser(c1.ID, other.ID)
	assert.Error(t, err)

	chapters := repository.NewChapterRepository(db)
	testutil.SeedChapter(t, db, c1.ID, 2)
	testutil.SeedChapter(t, db, c1.ID, 1)
	numbers, err := chapters.ChapterNumbers(c1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, numbers)

	byCourse, err := chapters.CountByCourses([]uint{c1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byCourse[c1.ID])
}

func TestMarkCompletedOnlyAppliesToReadyCourses(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "done@example.com")
	repo := repository.NewCourseRepository(db)

	generating := testutil.SeedCourse(t, db, user.ID, model.CourseGenerating)
	require.NoError(t, repo.MarkCompleted(generating.ID, user.ID))
	got, err := repo.FindByID(generating.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseGenerating, got.Status)
	assert.Nil(t, got.CompletedAt)

	ready := testutil.SeedCourse(t, db, user.ID, model.CourseReady)
	require.NoError(t, repo.MarkCompleted(ready.ID, user.ID))
	got, err = repo.FindByID(ready.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.NotNil(t, got.CompletedAt)
}
