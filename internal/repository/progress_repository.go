package repository

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// RecomputeChapterProgress 在同一事务内重新统计题目总数和已解决题数，并 upsert 章节进度
func (r *ProgressRepository) RecomputeChapterProgress(userID, chapterID uint) (*model.ChapterProgress, error) {
	var result model.ChapterProgress
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&model.HomeworkProblem{}).
			Where("chapter_id = ?", chapterID).
			Count(&total).Error; err != nil {
			return err
		}

		var solved int64
		if err := tx.Model(&model.HomeworkSubmission{}).
			Where("user_id = ? AND is_correct = ?", userID, true).
			Where("problem_id IN (?)", tx.Model(&model.HomeworkProblem{}).Select("id").Where("chapter_id = ?", chapterID)).
			Distinct("problem_id").
			Count(&solved).Error; err != nil {
			return err
		}

		var existing model.ChapterProgress
		found := true
		if err := tx.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&existing).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			found = false
		}

		now := time.Now()
		progress := model.ChapterProgress{
			UserID:               userID,
			ChapterID:            chapterID,
			TotalProblems:        int(total),
			SolvedProblems:       int(solved),
			CompletionPercentage: util.Percentage(solved, total),
			IsCompleted:          total > 0 && solved >= total,
			LastUpdated:          now,
		}

		updates := []string{"total_problems", "solved_problems", "completion_percentage", "is_completed", "last_updated"}
		switch {
		case progress.IsCompleted && found && existing.IsCompleted:
			progress.CompletedAt = existing.CompletedAt
		case progress.IsCompleted:
			progress.CompletedAt = &now
			updates = append(updates, "completed_at")
		default:
			// 新增题目后章节回到未完成
			updates = append(updates, "completed_at")
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).Create(&progress).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkChapterCompleted upsert 用户章节记录为已完成
func (r *ProgressRepository) MarkChapterCompleted(userID, courseID, chapterID uint) error {
	now := time.Now()
	up := model.UserProgress{
		UserID:       userID,
		CourseID:     courseID,
		ChapterID:    chapterID,
		Completed:    true,
		LastAccessed: now,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "last_accessed"}),
	}).Create(&up).Error
}

// RecordStudy 累加学习时长，notes 非空时覆盖笔记，不修改 completed
func (r *ProgressRepository) RecordStudy(userID, courseID, chapterID uint, minutes int, notes *string) (*model.UserProgress, error) {
	now := time.Now()
	up := model.UserProgress{
		UserID:           userID,
		CourseID:         courseID,
		ChapterID:        chapterID,
		TimeSpentMinutes: minutes,
		Notes:            notes,
		LastAccessed:     now,
	}

	assignments := clause.Assignments(map[string]interface{}{
		"time_spent_minutes": gorm.Expr("user_progress.time_spent_minutes + ?", minutes),
		"last_accessed":      now,
	})
	if notes != nil {
		assignments = append(assignments, clause.Assignment{Column: clause.Column{Name: "notes"}, Value: *notes})
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: assignments,
	}).Create(&up).Error
	if err != nil {
		return nil, err
	}

	var saved model.UserProgress
	err = r.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&saved).Error
	return &saved, err
}

// CountCompletedChapters 用户在课程中已完成的章节数
func (r *ProgressRepository) CountCompletedChapters(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Joins("JOIN chapters ON chapters.id = user_progress.chapter_id").
		Where("user_progress.user_id = ? AND user_progress.completed = ? AND chapters.course_id = ?", userID, true, courseID).
		Distinct("user_progress.chapter_id").
		Count(&count).Error
	return count, err
}

// CompletedChaptersByCourse 按课程汇总已完成章节数
func (r *ProgressRepository) CompletedChaptersByCourse(userID uint) (map[uint]int64, error) {
	var rows []struct {
		CourseID uint
		Count    int64
	}
	err := r.DB.Model(&model.UserProgress{}).
		Select("chapters.course_id AS course_id, COUNT(DISTINCT user_progress.chapter_id) AS count").
		Joins("JOIN chapters ON chapters.id = user_progress.chapter_id").
		Where("user_progress.user_id = ? AND user_progress.completed = ?", userID, true).
		Group("chapters.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}

func (r *ProgressRepository) ListUserProgress(userID, courseID uint) ([]model.UserProgress, error) {
	var list []model.UserProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&list).Error
	return list, err
}

func (r *ProgressRepository) ListChapterProgress(userID uint, chapterIDs []uint) ([]model.ChapterProgress, error) {
	var list []model.ChapterProgress
	if len(chapterIDs) == 0 {
		return list, nil
	}
	err := r.DB.Where("user_id = ? AND chapter_id IN ?", userID, chapterIDs).Find(&list).Error
	return list, err
}

// FindChapterProgress 不存在时返回 nil, nil
func (r *ProgressRepository) FindChapterProgress(userID, chapterID uint) (*model.ChapterProgress, error) {
	var progress model.ChapterProgress
	err := r.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).Limit(1).Find(&progress).Error
	if err != nil {
		return nil, err
	}
	if progress.ID == 0 {
		return nil, nil
	}
	return &progress, nil
}
