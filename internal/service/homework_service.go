package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/logger"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HomeworkService struct {
	ChapterRepo  *repository.ChapterRepository
	CourseRepo   *repository.CourseRepository
	HomeworkRepo *repository.HomeworkRepository
	ProgressRepo *repository.ProgressRepository
	Generator    ContentGenerator
	Enricher     *ChapterEnricher
	Storage      *StorageService
}

func NewHomeworkService(
	chapterRepo *repository.ChapterRepository,
	courseRepo *repository.CourseRepository,
	homeworkRepo *repository.HomeworkRepository,
	progressRepo *repository.ProgressRepository,
	generator ContentGenerator,
	enricher *ChapterEnricher,
	storage *StorageService,
) *HomeworkService {
	return &HomeworkService{
		ChapterRepo:  chapterRepo,
		CourseRepo:   courseRepo,
		HomeworkRepo: homeworkRepo,
		ProgressRepo: progressRepo,
		Generator:    generator,
		Enricher:     enricher,
		Storage:      storage,
	}
}

// SubmissionInput solution 与 solutionImage 必须且只能提供一个
type SubmissionInput struct {
	ProblemID     uint
	Solution      string
	SolutionImage string
}

type GradeOutcome struct {
	IsCorrect   bool   `json:"isCorrect"`
	Feedback    string `json:"feedback"`
	Suggestions string `json:"suggestions"`
	Attempts    int    `json:"attempts"`
}

// HomeworkList 章节题目及当前用户进度
type HomeworkList struct {
	Problems []model.ProblemWithStatus `json:"problems"`
	Progress HomeworkProgressView      `json:"progress"`
}

func (s *HomeworkService) List(userID, chapterID uint) (*HomeworkList, error) {
	if _, _, err := ownedChapter(s.ChapterRepo, userID, chapterID); err != nil {
		return nil, err
	}
	problems, err := s.HomeworkRepo.ListProblemsWithStatus(chapterID, userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.FindChapterProgress(userID, chapterID)
	if err != nil {
		return nil, err
	}

	view := HomeworkProgressView{TotalProblems: len(problems)}
	if progress != nil {
		view = HomeworkProgressView{
			TotalProblems:        progress.TotalProblems,
			SolvedProblems:       progress.SolvedProblems,
			CompletionPercentage: progress.CompletionPercentage,
			IsCompleted:          progress.IsCompleted,
		}
	}
	return &HomeworkList{Problems: problems, Progress: view}, nil
}

// Grade 评分并追加提交记录，正确时更新章节和课程进度
func (s *HomeworkService) Grade(ctx context.Context, userID, chapterID uint, in SubmissionInput) (*GradeOutcome, error) {
	in.Solution = strings.TrimSpace(in.Solution)
	hasText, hasImage := in.Solution != "", in.SolutionImage != ""
	if hasText == hasImage {
		return nil, util.NewValidationError("Provide either a text solution or a solution image")
	}
	if s.Generator == nil {
		return nil, util.ErrAIServiceNotConfigured
	}

	chapter, course, err := ownedChapter(s.ChapterRepo, userID, chapterID)
	if err != nil {
		return nil, err
	}
	problem, err := s.findProblem(in.ProblemID, chapter.ID)
	if err != nil {
		return nil, err
	}

	var image *DecodedImage
	if hasImage {
		if image, err = DecodeImageDataURL(in.SolutionImage); err != nil {
			return nil, util.NewValidationError(err.Error())
		}
	}

	notes := ""
	if chapter.AIGeneratedNotes != nil {
		notes = *chapter.AIGeneratedNotes
	}
	raw, err := s.Generator.GradeSolution(ctx, GradeRequest{
		ChapterTitle:     chapter.Title,
		ChapterNotes:     notes,
		ProblemTitle:     problem.Title,
		Description:      problem.Description,
		ExpectedApproach: problem.ExpectedApproach,
		Solution:         in.Solution,
		ImageDataURL:     in.SolutionImage,
	})
	if err != nil {
		return nil, util.NewInternalError("Failed to grade solution", err)
	}
	result := ParseGradeResult(raw)

	latest, err := s.HomeworkRepo.LatestAttempts(problem.ID, userID)
	if err != nil {
		return nil, err
	}

	submission := &model.HomeworkSubmission{
		ProblemID:  problem.ID,
		UserID:     userID,
		IsCorrect:  result.IsCorrect,
		AIFeedback: result.Feedback,
		Attempts:   latest + 1,
	}
	if hasText {
		submission.Solution = &in.Solution
	}
	if result.IsCorrect {
		now := time.Now()
		submission.CompletedAt = &now
	}

	var imageKey string
	if image != nil {
		prefix := "homework/" + strconv.FormatUint(uint64(userID), 10)
		key, url, err := s.Storage.SaveImage(ctx, prefix, image)
		if err != nil {
			return nil, util.NewInternalError("Failed to store solution image", err)
		}
		imageKey = key
		submission.SolutionImageURL = &url
	}

	if err := s.HomeworkRepo.CreateSubmission(submission); err != nil {
		if imageKey != "" {
			if delErr := s.Storage.Delete(ctx, imageKey); delErr != nil {
				logger.Log.Warn("Failed to remove orphaned solution image", zap.String("key", imageKey), zap.Error(delErr))
			}
		}
		return nil, err
	}

	if result.IsCorrect {
		s.updateProgress(userID, course, chapter.ID)
	}

	return &GradeOutcome{
		IsCorrect:   result.IsCorrect,
		Feedback:    result.Feedback,
		Suggestions: result.Suggestions,
		Attempts:    submission.Attempts,
	}, nil
}

// updateProgress 进度汇总失败只记录日志，不影响评分结果
func (s *HomeworkService) updateProgress(userID uint, course *model.Course, chapterID uint) {
	courseID := course.ID
	log := logger.Log.With(zap.Uint("user_id", userID), zap.Uint("chapter_id", chapterID))

	progress, err := s.ProgressRepo.RecomputeChapterProgress(userID, chapterID)
	if err != nil {
		log.Error("Failed to update chapter progress", zap.Error(err))
		return
	}
	if !progress.IsCompleted {
		return
	}

	if err := s.ProgressRepo.MarkChapterCompleted(userID, courseID, chapterID); err != nil {
		log.Error("Failed to mark chapter completed", zap.Error(err))
		return
	}

	// 生成中的课程 MarkCompleted 不生效，ready 之后由 CourseService 补做汇总
	if err := completeCourseIfDone(s.ChapterRepo, s.ProgressRepo, s.CourseRepo, course, userID); err != nil {
		log.Warn("Failed to roll up course completion", zap.Uint("course_id", courseID), zap.Error(err))
	}
}

// completeCourseIfDone 按计划章节数判断，全部章节作业完成时把 ready 课程标记为 completed
func completeCourseIfDone(chapters *repository.ChapterRepository, progress *repository.ProgressRepository, courses *repository.CourseRepository, course *model.Course, userID uint) error {
	total := int64(course.TotalChapters)
	if total == 0 {
		n, err := chapters.CountByCourse(course.ID)
		if err != nil {
			return err
		}
		total = n
	}
	completed, err := progress.CountCompletedChapters(userID, course.ID)
	if err != nil {
		return err
	}
	if total == 0 || completed < total {
		return nil
	}
	return courses.MarkCompleted(course.ID, userID)
}

// Hint 只返回提示，不评分也不保存
func (s *HomeworkService) Hint(ctx context.Context, userID, chapterID, problemID uint) (string, error) {
	if s.Generator == nil {
		return "", util.ErrAIServiceNotConfigured
	}
	chapter, _, err := ownedChapter(s.ChapterRepo, userID, chapterID)
	if err != nil {
		return "", err
	}
	problem, err := s.findProblem(problemID, chapter.ID)
	if err != nil {
		return "", err
	}
	hint, err := s.Generator.GenerateHint(ctx, HintRequest{
		ChapterTitle: chapter.Title,
		ProblemTitle: problem.Title,
		Description:  problem.Description,
	})
	if err != nil {
		return "", util.NewInternalError("Failed to generate hint", err)
	}
	return strings.TrimSpace(hint), nil
}

// GeneratedHomework created 为 false 表示章节已有题目
type GeneratedHomework struct {
	Created  bool
	Problems []model.HomeworkProblem
}

// GenerateOnDemand 章节没有题目时才生成，重复调用返回已有题目
func (s *HomeworkService) GenerateOnDemand(ctx context.Context, userID, chapterID uint) (*GeneratedHomework, error) {
	chapter, course, err := ownedChapter(s.ChapterRepo, userID, chapterID)
	if err != nil {
		return nil, err
	}
	existing, err := s.HomeworkRepo.ListProblems(chapter.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &GeneratedHomework{Created: false, Problems: existing}, nil
	}
	if s.Generator == nil {
		return nil, util.ErrAIServiceNotConfigured
	}

	problems, err := s.Enricher.HomeworkStep(ctx, course, chapter)
	if err != nil {
		return nil, util.NewInternalError("Failed to generate homework", err)
	}
	return &GeneratedHomework{Created: true, Problems: problems}, nil
}

func (s *HomeworkService) findProblem(problemID, chapterID uint) (*model.HomeworkProblem, error) {
	if problemID == 0 {
		return nil, util.NewValidationError("problemId is required")
	}
	problem, err := s.HomeworkRepo.FindProblemInChapter(problemID, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}
	return problem, nil
}
