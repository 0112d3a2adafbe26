package repository

import (
	"ai_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, id).Error
	return &chapter, err
}

// FindForUser 仅返回属于该用户课程的章节
func (r *ChapterRepository) FindForUser(id, userID uint) (*model.Chapter, *model.Course, error) {
	var chapter model.Chapter
	if err := r.DB.First(&chapter, id).Error; err != nil {
		return nil, nil, err
	}
	var course model.Course
	if err := r.DB.Where("id = ? AND user_id = ?", chapter.CourseID, userID).First(&course).Error; err != nil {
		return nil, nil, err
	}
	return &chapter, &course, nil
}

// ListByCourse 按章节号排序，附带视频和知识点
func (r *ChapterRepository) ListByCourse(courseID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Where("course_id = ?", courseID).
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("chapter_number").
		Find(&chapters).Error
	return chapters, err
}

func (r *ChapterRepository) ChapterNumbers(courseID uint) ([]int, error) {
	var numbers []int
	err := r.DB.Model(&model.Chapter{}).
		Where("course_id = ?", courseID).
		Order("chapter_number").
		Pluck("chapter_number", &numbers).Error
	return numbers, err
}

func (r *ChapterRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Chapter{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// CountByCourses 批量统计每门课程的章节数
func (r *ChapterRepository) CountByCourses(courseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CourseID uint
		Count    int64
	}
	err := r.DB.Model(&model.Chapter{}).
		Select("course_id, COUNT(*) AS count").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}

func (r *ChapterRepository) UpdateNotes(id uint, notes string) error {
	return r.DB.Model(&model.Chapter{}).Where("id = ?", id).Update("ai_generated_notes", notes).Error
}

func (r *ChapterRepository) CreateVideos(videos []model.ChapterVideo) error {
	if len(videos) == 0 {
		return nil
	}
	return r.DB.Create(&videos).Error
}

func (r *ChapterRepository) CreateTopics(topics []model.ChapterTopic) error {
	if len(topics) == 0 {
		return nil
	}
	return r.DB.Create(&topics).Error
}
