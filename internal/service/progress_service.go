package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
)

type ProgressService struct {
	ChapterRepo  *repository.ChapterRepository
	ProgressRepo *repository.ProgressRepository
}

func NewProgressService(chapterRepo *repository.ChapterRepository, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{ChapterRepo: chapterRepo, ProgressRepo: progressRepo}
}

// RecordStudy 累加学习时长并可更新笔记；章节完成状态只由作业决定
func (s *ProgressService) RecordStudy(userID, chapterID uint, minutes int, notes *string) (*model.UserProgress, error) {
	if minutes < 0 {
		return nil, util.NewValidationError("timeSpentMinutes must not be negative")
	}
	if minutes == 0 && notes == nil {
		return nil, util.NewValidationError("timeSpentMinutes or notes is required")
	}
	chapter, _, err := ownedChapter(s.ChapterRepo, userID, chapterID)
	if err != nil {
		return nil, err
	}
	return s.ProgressRepo.RecordStudy(userID, chapter.CourseID, chapter.ID, minutes, notes)
}
