package repository

import (
	"ai_tutor_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HomeworkRepository struct {
	DB *gorm.DB
}

func NewHomeworkRepository(db *gorm.DB) *HomeworkRepository {
	return &HomeworkRepository{DB: db}
}

// CreateProblems (chapter_id, problem_number) 冲突时忽略
func (r *HomeworkRepository) CreateProblems(problems []model.HomeworkProblem) error {
	if len(problems) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chapter_id"}, {Name: "problem_number"}},
		DoNothing: true,
	}).Create(&problems).Error
}

func (r *HomeworkRepository) ListProblems(chapterID uint) ([]model.HomeworkProblem, error) {
	var problems []model.HomeworkProblem
	err := r.DB.Where("chapter_id = ?", chapterID).Order("problem_number").Find(&problems).Error
	return problems, err
}

func (r *HomeworkRepository) CountProblems(chapterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.HomeworkProblem{}).Where("chapter_id = ?", chapterID).Count(&count).Error
	return count, err
}

func (r *HomeworkRepository) FindProblemInChapter(problemID, chapterID uint) (*model.HomeworkProblem, error) {
	var problem model.HomeworkProblem
	err := r.DB.Where("id = ? AND chapter_id = ?", problemID, chapterID).First(&problem).Error
	return &problem, err
}

// ListProblemsWithStatus 附带用户最近一次提交的结果和次数
func (r *HomeworkRepository) ListProblemsWithStatus(chapterID, userID uint) ([]model.ProblemWithStatus, error) {
	problems, err := r.ListProblems(chapterID)
	if err != nil {
		return nil, err
	}
	result := make([]model.ProblemWithStatus, 0, len(problems))
	if len(problems) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(problems))
	for _, p := range problems {
		ids = append(ids, p.ID)
	}

	var submissions []model.HomeworkSubmission
	err = r.DB.Where("user_id = ? AND problem_id IN ?", userID, ids).
		Order("id DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]model.HomeworkSubmission, len(ids))
	for _, s := range submissions {
		if _, ok := latest[s.ProblemID]; !ok {
			latest[s.ProblemID] = s
		}
	}

	for _, p := range problems {
		item := model.ProblemWithStatus{HomeworkProblem: p}
		if s, ok := latest[p.ID]; ok {
			item.IsSolved = s.IsCorrect
			item.UserAttempts = s.Attempts
		}
		result = append(result, item)
	}
	return result, nil
}

// LatestAttempts 最近一次提交的 attempts，无提交时为 0
func (r *HomeworkRepository) LatestAttempts(problemID, userID uint) (int, error) {
	var submission model.HomeworkSubmission
	err := r.DB.Where("problem_id = ? AND user_id = ?", problemID, userID).
		Order("id DESC").
		Limit(1).
		Find(&submission).Error
	if err != nil {
		return 0, err
	}
	return submission.Attempts, nil
}

func (r *HomeworkRepository) CreateSubmission(submission *model.HomeworkSubmission) error {
	return r.DB.Create(submission).Error
}
