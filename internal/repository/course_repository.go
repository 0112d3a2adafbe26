package repository

import (
	"ai_tutor_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByIDForUser(id, userID uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&course).Error
	return &course, err
}

func (r *CourseRepository) ListByUser(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&courses).Error
	return courses, err
}

// FindByStatus 启动时查找未完成生成的课程
func (r *CourseRepository) FindByStatus(status model.CourseStatus) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("status = ?", status).Order("id").Find(&courses).Error
	return courses, err
}

// UpdateProgress 只前进不后退
func (r *CourseRepository) UpdateProgress(id uint, progress int) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ? AND progress < ?", id, progress).
		Update("progress", progress).Error
}

func (r *CourseRepository) UpdateStatus(id uint, status model.CourseStatus) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkReady 全部章节生成完成
func (r *CourseRepository) MarkReady(id uint) error {
	now := time.Now()
	return r.DB.Model(&model.Course{}).
		Where("id = ? AND status = ?", id, model.CourseGenerating).
		Updates(map[string]interface{}{
			"status":       model.CourseReady,
			"progress":     100,
			"completed_at": &now,
		}).Error
}

// MarkCompleted 学生完成全部章节作业，只对 ready 状态生效
func (r *CourseRepository) MarkCompleted(id, userID uint) error {
	now := time.Now()
	return r.DB.Model(&model.Course{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, model.CourseReady).
		Updates(map[string]interface{}{
			"status":       model.CourseCompleted,
			"progress":     100,
			"completed_at": &now,
		}).Error
}

// StatusCounts 按状态统计用户课程数
func (r *CourseRepository) StatusCounts(userID uint) (map[model.CourseStatus]int64, error) {
	var rows []struct {
		Status model.CourseStatus
		Count  int64
	}
	err := r.DB.Model(&model.Course{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.CourseStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
