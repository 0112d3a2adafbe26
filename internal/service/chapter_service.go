package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ChapterService struct {
	ChapterRepo *repository.ChapterRepository
	Enricher    *ChapterEnricher
}

func NewChapterService(chapterRepo *repository.ChapterRepository, enricher *ChapterEnricher) *ChapterService {
	return &ChapterService{ChapterRepo: chapterRepo, Enricher: enricher}
}

// GetNotes 已有笔记直接返回（cached=true），否则现场生成并保存
func (s *ChapterService) GetNotes(ctx context.Context, userID, chapterID uint) (notes string, cached bool, err error) {
	chapter, course, err := ownedChapter(s.ChapterRepo, userID, chapterID)
	if err != nil {
		return "", false, err
	}
	if chapter.AIGeneratedNotes != nil && *chapter.AIGeneratedNotes != "" {
		return *chapter.AIGeneratedNotes, true, nil
	}

	notes, err = s.Enricher.NotesStep(ctx, course, chapter)
	if err != nil {
		if util.KindOf(err) != util.KindInternal {
			return "", false, err
		}
		return "", false, util.NewInternalError("Failed to generate notes", err)
	}
	return notes, false, nil
}

// ownedChapter 章节不存在或不属于该用户时返回 ErrChapterNotFound
func ownedChapter(repo *repository.ChapterRepository, userID, chapterID uint) (*model.Chapter, *model.Course, error) {
	chapter, course, err := repo.FindForUser(chapterID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrChapterNotFound
		}
		return nil, nil, err
	}
	return chapter, course, nil
}
