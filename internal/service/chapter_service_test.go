package service_test

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/testutil"
	"ai_tutor_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotesGeneratesOnceThenServesCache(t *testing.T) {
	f := newFixture(t)
	svc := service.NewChapterService(f.chapters, f.enricher)
	user := testutil.SeedUser(t, f.db, "notes@example.com")
	course := testutil.SeedCourse(t, f.db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, f.db, course.ID, 1)

	notes, cached, err := svc.GetNotes(context.Background(), user.ID, chapter.ID)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Notes for Chapter 1", notes)

	notes, cached, err = svc.GetNotes(context.Background(), user.ID, chapter.ID)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "Notes for Chapter 1", notes)
	assert.Equal(t, 1, f.gen.Calls("notes"))
}

func TestGetNotesErrors(t *testing.T) {
	f := newFixture(t)
	svc := service.NewChapterService(f.chapters, f.enricher)
	user := testutil.SeedUser(t, f.db, "notes-err@example.com")
	course := testutil.SeedCourse(t, f.db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, f.db, course.ID, 1)

	stranger := testutil.SeedUser(t, f.db, "notes-stranger@example.com")
	_, _, err := svc.GetNotes(context.Background(), stranger.ID, chapter.ID)
	assert.ErrorIs(t, err, util.ErrChapterNotFound)

	f.gen.notesErr = errAIDown
	_, _, err = svc.GetNotes(context.Background(), user.ID, chapter.ID)
	require.Error(t, err)
	assert.Equal(t, util.KindInternal, util.KindOf(err))
	assert.ErrorIs(t, err, errAIDown)

	f.enricher.Generator = nil
	_, _, err = svc.GetNotes(context.Background(), user.ID, chapter.ID)
	assert.ErrorIs(t, err, util.ErrAIServiceNotConfigured)
}
