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

func TestChatLogsDoubtsNewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := service.NewChatService(f.chapters, f.doubts, f.gen)
	user := testutil.SeedUser(t, f.db, "chat@example.com")
	course := testutil.SeedCourse(t, f.db, user.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, f.db, course.ID, 1)

	for _, q := range []string{"What is a goroutine?", "  And a channel?  "} {
		answer, err := svc.Ask(context.Background(), user.ID, service.ChatInput{
			Message:      q,
			ChapterTitle: chapter.Title,
			ChapterID:    chapter.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "A goroutine is a lightweight thread.", answer)
	}

	doubts, err := svc.ListDoubts(user.ID, chapter.ID)
	require.NoError(t, err)
	require.Len(t, doubts, 2)
	assert.Equal(t, "And a channel?", doubts[0].Question)
	assert.Equal(t, "What is a goroutine?", doubts[1].Question)
	assert.Equal(t, "A goroutine is a lightweight thread.", doubts[0].Answer)
}

func TestChatWithoutChapterOrOwnershipSkipsDoubtLog(t *testing.T) {
	f := newFixture(t)
	svc := service.NewChatService(f.chapters, f.doubts, f.gen)
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	other := testutil.SeedUser(t, f.db, "other@example.com")
	course := testutil.SeedCourse(t, f.db, owner.ID, model.CourseReady)
	chapter := testutil.SeedChapter(t, f.db, course.ID, 1)

	_, err := svc.Ask(context.Background(), owner.ID, service.ChatInput{Message: "hi", ChapterTitle: "Intro"})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), other.ID, service.ChatInput{Message: "hi", ChapterTitle: "Intro", ChapterID: chapter.ID})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&model.ChapterDoubt{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.ListDoubts(other.ID, chapter.ID)
	assert.ErrorIs(t, err, util.ErrChapterNotFound)
}

func TestChatValidation(t *testing.T) {
	f := newFixture(t)
	svc := service.NewChatService(f.chapters, f.doubts, f.gen)

	_, err := svc.Ask(context.Background(), 1, service.ChatInput{Message: "   ", ChapterTitle: "x"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	_, err = svc.Ask(context.Background(), 1, service.ChatInput{Message: "hi"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	assert.Zero(t, f.gen.Calls("chat"))

	svc.Generator = nil
	_, err = svc.Ask(context.Background(), 1, service.ChatInput{Message: "hi", ChapterTitle: "x"})
	assert.ErrorIs(t, err, util.ErrAIServiceNotConfigured)
}
