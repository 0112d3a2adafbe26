package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/logger"
	"context"
	"strings"

	"go.uber.org/zap"
)

// ChatService 章节答疑，回答记录为疑问日志
type ChatService struct {
	ChapterRepo *repository.ChapterRepository
	DoubtRepo   *repository.DoubtRepository
	Generator   ContentGenerator
}

func NewChatService(chapterRepo *repository.ChapterRepository, doubtRepo *repository.DoubtRepository, generator ContentGenerator) *ChatService {
	return &ChatService{
		ChapterRepo: chapterRepo,
		DoubtRepo:   doubtRepo,
		Generator:   generator,
	}
}

type ChatInput struct {
	Message      string
	ChapterTitle string
	ChapterNotes string
	// 为 0 时不记录疑问
	ChapterID uint
	History   []ChatTurn
}

func (s *ChatService) Ask(ctx context.Context, userID uint, in ChatInput) (string, error) {
	if s.Generator == nil {
		return "", util.ErrAIServiceNotConfigured
	}
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" || strings.TrimSpace(in.ChapterTitle) == "" {
		return "", util.NewValidationError("Message and chapter title are required")
	}

	answer, err := s.Generator.Chat(ctx, ChatRequest{
		Message:      in.Message,
		ChapterTitle: in.ChapterTitle,
		ChapterNotes: in.ChapterNotes,
		History:      in.History,
	})
	if err != nil {
		return "", util.NewInternalError("Failed to generate response", err)
	}

	if in.ChapterID != 0 {
		s.logDoubt(userID, in.ChapterID, in.Message, answer)
	}
	return answer, nil
}

// logDoubt 保存失败不影响回答
func (s *ChatService) logDoubt(userID, chapterID uint, question, answer string) {
	log := logger.Log.With(zap.Uint("user_id", userID), zap.Uint("chapter_id", chapterID))
	if _, _, err := ownedChapter(s.ChapterRepo, userID, chapterID); err != nil {
		log.Warn("Skipping doubt log for inaccessible chapter", zap.Error(err))
		return
	}
	doubt := &model.ChapterDoubt{
		ChapterID: chapterID,
		UserID:    userID,
		Question:  question,
		Answer:    answer,
	}
	if err := s.DoubtRepo.Create(doubt); err != nil {
		log.Warn("Failed to save chapter doubt", zap.Error(err))
	}
}

// ListDoubts 章节最近的疑问，最新的在前
func (s *ChatService) ListDoubts(userID, chapterID uint) ([]model.ChapterDoubt, error) {
	if _, _, err := ownedChapter(s.ChapterRepo, userID, chapterID); err != nil {
		return nil, err
	}
	return s.DoubtRepo.ListByChapter(chapterID, util.MaxDoubtsListed)
}
