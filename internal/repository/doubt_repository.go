package repository

import (
	"ai_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type DoubtRepository struct {
	DB *gorm.DB
}

func NewDoubtRepository(db *gorm.DB) *DoubtRepository {
	return &DoubtRepository{DB: db}
}

func (r *DoubtRepository) Create(doubt *model.ChapterDoubt) error {
	return r.DB.Create(doubt).Error
}

// ListByChapter 最新的在前
func (r *DoubtRepository) ListByChapter(chapterID uint, limit int) ([]model.ChapterDoubt, error) {
	var doubts []model.ChapterDoubt
	err := r.DB.Where("chapter_id = ?", chapterID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&doubts).Error
	return doubts, err
}
