package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/logger"
	"ai_tutor_backend/pkg/monitoring"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ChapterRepo  *repository.ChapterRepository
	ProgressRepo *repository.ProgressRepository
	Generator    ContentGenerator
	Enricher     *ChapterEnricher
	Executor     *GenerationExecutor
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	chapterRepo *repository.ChapterRepository,
	progressRepo *repository.ProgressRepository,
	generator ContentGenerator,
	enricher *ChapterEnricher,
	executor *GenerationExecutor,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ChapterRepo:  chapterRepo,
		ProgressRepo: progressRepo,
		Generator:    generator,
		Enricher:     enricher,
		Executor:     executor,
	}
}

type GenerateCourseInput struct {
	Topic         string
	Difficulty    string
	Duration      int
	Category      string
	Language      string
	IncludeVideos *bool
}

// GeneratedCourse 同步阶段返回的课程概要
type GeneratedCourse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Topic         string             `json:"topic"`
	Difficulty    string             `json:"difficulty"`
	Duration      int                `json:"duration"`
	Description   string             `json:"description"`
	Status        model.CourseStatus `json:"status"`
	TotalChapters int                `json:"totalChapters"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// PlannedChapterCount 每周 1.5 章，向上取整
func PlannedChapterCount(durationWeeks int) int {
	return (durationWeeks*3 + 1) / 2
}

// StartCourseGeneration 同步生成大纲和第一章，其余章节交给后台任务
func (s *CourseService) StartCourseGeneration(ctx context.Context, userID uint, in GenerateCourseInput) (*GeneratedCourse, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	in.Difficulty = strings.TrimSpace(in.Difficulty)
	if in.Topic == "" || in.Difficulty == "" || in.Duration <= 0 {
		return nil, util.NewValidationError("Topic, difficulty, and duration are required")
	}
	if in.Category == "" {
		in.Category = util.DefaultCategory
	}
	if in.Language == "" {
		in.Language = util.DefaultLanguage
	}
	includeVideos := true
	if in.IncludeVideos != nil {
		includeVideos = *in.IncludeVideos
	}
	if s.Generator == nil {
		return nil, util.ErrAIServiceNotConfigured
	}

	raw, err := s.Generator.GenerateOutline(ctx, OutlineRequest{
		Topic:        in.Topic,
		Difficulty:   in.Difficulty,
		Duration:     in.Duration,
		Language:     in.Language,
		Category:     in.Category,
		ChapterCount: PlannedChapterCount(in.Duration),
	})
	if err == nil {
		var outline *model.CourseOutline
		if outline, err = ParseOutline(raw); err == nil {
			return s.createCourse(ctx, userID, in, includeVideos, outline)
		}
	}
	monitoring.CourseGenerations.WithLabelValues("outline_failed").Inc()
	return nil, util.NewInternalError("Failed to generate course content", err)
}

func (s *CourseService) createCourse(ctx context.Context, userID uint, in GenerateCourseInput, includeVideos bool, outline *model.CourseOutline) (*GeneratedCourse, error) {
	title := strings.TrimSpace(outline.CourseTitle)
	if title == "" {
		title = in.Topic
	}
	course := &model.Course{
		UserID:        userID,
		Title:         title,
		Topic:         in.Topic,
		Difficulty:    in.Difficulty,
		Duration:      in.Duration,
		Category:      in.Category,
		Description:   outline.Description,
		Language:      in.Language,
		IncludeVideos: includeVideos,
		Status:        model.CourseGenerating,
		Progress:      0,
		TotalChapters: len(outline.Chapters),
		Outline:       outline,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	release, err := s.Executor.Acquire(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	// 客户端断开不影响第一章的生成
	if err := s.materializeChapter(context.WithoutCancel(ctx), course, outline.Chapters[0]); err != nil {
		release()
		s.failCourse(course.ID, err)
		return nil, util.NewInternalError("Failed to create first chapter", err)
	}

	if course.TotalChapters == 1 {
		release()
		if err := s.CourseRepo.MarkReady(course.ID); err != nil {
			return nil, err
		}
		monitoring.CourseGenerations.WithLabelValues("ready").Inc()
		course.Status = model.CourseReady
	} else {
		if err := s.CourseRepo.UpdateProgress(course.ID, util.Percentage(1, int64(course.TotalChapters))); err != nil {
			logger.Log.Warn("Failed to update course progress", zap.Uint("course_id", course.ID), zap.Error(err))
		}
		s.Executor.Go(s.generationTask(course.ID), release)
	}

	return &GeneratedCourse{
		ID:            course.ID,
		Title:         course.Title,
		Topic:         course.Topic,
		Difficulty:    course.Difficulty,
		Duration:      course.Duration,
		Description:   course.Description,
		Status:        course.Status,
		TotalChapters: course.TotalChapters,
		CreatedAt:     course.CreatedAt,
	}, nil
}

func (s *CourseService) generationTask(courseID uint) GenerationTask {
	return GenerationTask{
		CourseID: courseID,
		Run: func(ctx context.Context) error {
			return s.continueGeneration(ctx, courseID)
		},
		OnFailure: func(err error) {
			s.failCourse(courseID, err)
		},
	}
}

// continueGeneration 补齐尚未生成的章节，已存在的章节号直接跳过，可重复执行
func (s *CourseService) continueGeneration(ctx context.Context, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return err
	}
	if course.Outline == nil || len(course.Outline.Chapters) == 0 {
		return errors.New("course has no stored outline")
	}

	numbers, err := s.ChapterRepo.ChapterNumbers(courseID)
	if err != nil {
		return err
	}
	existing := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		existing[n] = struct{}{}
	}

	total := int64(len(course.Outline.Chapters))
	materialized := int64(len(existing))
	for _, planned := range course.Outline.Chapters {
		if _, ok := existing[planned.ChapterNumber]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.materializeChapter(ctx, course, planned); err != nil {
			return err
		}
		materialized++
		if err := s.CourseRepo.UpdateProgress(courseID, util.Percentage(materialized, total)); err != nil {
			return err
		}
	}

	if err := s.CourseRepo.MarkReady(courseID); err != nil {
		return err
	}
	monitoring.CourseGenerations.WithLabelValues("ready").Inc()

	// 生成期间已完成的作业在 ready 之后汇总
	course.Status = model.CourseReady
	if err := completeCourseIfDone(s.ChapterRepo, s.ProgressRepo, s.CourseRepo, course, course.UserID); err != nil {
		logger.Log.Warn("Failed to roll up course completion", zap.Uint("course_id", courseID), zap.Error(err))
	}
	return nil
}

// materializeChapter 写入章节行后执行各补充步骤；章节写入失败属于结构性错误
func (s *CourseService) materializeChapter(ctx context.Context, course *model.Course, planned model.OutlineChapter) error {
	minutes := planned.DurationMinutes
	if minutes <= 0 {
		minutes = util.DefaultChapterMinutes
	}
	chapter := &model.Chapter{
		CourseID:        course.ID,
		ChapterNumber:   planned.ChapterNumber,
		Title:           planned.Title,
		Description:     planned.Description,
		DurationMinutes: minutes,
		Content:         planned.Topics,
	}
	if err := s.ChapterRepo.Create(chapter); err != nil {
		return err
	}

	_, err := s.Enricher.Enrich(ctx, course, chapter, planned)
	return err
}

// failCourse 关闭时被取消的任务保持 generating，下次启动时恢复
func (s *CourseService) failCourse(courseID uint, cause error) {
	if errors.Is(cause, context.Canceled) {
		logger.Log.Info("Course generation interrupted, will resume on next start", zap.Uint("course_id", courseID))
		return
	}
	monitoring.CourseGenerations.WithLabelValues("failed").Inc()
	if err := s.CourseRepo.UpdateStatus(courseID, model.CourseFailed); err != nil {
		logger.Log.Error("Failed to mark course as failed",
			zap.Uint("course_id", courseID),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
	}
}

// ResumeGeneration 手动恢复失败或中断的课程生成
func (s *CourseService) ResumeGeneration(ctx context.Context, userID, courseID uint) (*CourseStatusView, error) {
	course, err := s.findOwnedCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseGenerating && course.Status != model.CourseFailed {
		return nil, util.ErrCourseNotResumable
	}
	if course.Outline == nil || len(course.Outline.Chapters) == 0 {
		return nil, util.ErrCourseNotResumable
	}

	release, err := s.Executor.Acquire(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if err := s.CourseRepo.UpdateStatus(course.ID, model.CourseGenerating); err != nil {
		release()
		return nil, err
	}
	s.Executor.Go(s.generationTask(course.ID), release)

	return s.GetStatus(userID, courseID)
}

// ResumeStalled 启动时恢复所有停留在 generating 的课程
func (s *CourseService) ResumeStalled(ctx context.Context) (int, error) {
	courses, err := s.CourseRepo.FindByStatus(model.CourseGenerating)
	if err != nil {
		return 0, err
	}
	resumed := 0
	for _, c := range courses {
		if c.Outline == nil || len(c.Outline.Chapters) == 0 {
			s.failCourse(c.ID, errors.New("course has no stored outline"))
			continue
		}
		if err := s.Executor.Submit(ctx, s.generationTask(c.ID)); err != nil {
			if !errors.Is(err, util.ErrGenerationInProgress) {
				logger.Log.Warn("Failed to resume course generation", zap.Uint("course_id", c.ID), zap.Error(err))
			}
			continue
		}
		resumed++
	}
	return resumed, nil
}

type CourseStatusView struct {
	ID                uint               `json:"id"`
	Status            model.CourseStatus `json:"status"`
	Progress          int                `json:"progress"`
	TotalChapters     int                `json:"totalChapters"`
	GeneratedChapters int64              `json:"generatedChapters"`
}

func (s *CourseService) GetStatus(userID, courseID uint) (*CourseStatusView, error) {
	course, err := s.findOwnedCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	generated, err := s.ChapterRepo.CountByCourse(course.ID)
	if err != nil {
		return nil, err
	}
	return &CourseStatusView{
		ID:                course.ID,
		Status:            course.Status,
		Progress:          course.Progress,
		TotalChapters:     course.TotalChapters,
		GeneratedChapters: generated,
	}, nil
}

type CourseSummary struct {
	ID                uint               `json:"id"`
	Title             string             `json:"title"`
	Topic             string             `json:"topic"`
	Difficulty        string             `json:"difficulty"`
	Duration          int                `json:"duration"`
	Category          string             `json:"category"`
	Description       string             `json:"description"`
	Language          string             `json:"language"`
	Status            model.CourseStatus `json:"status"`
	Progress          int                `json:"progress"`
	TotalChapters     int64              `json:"totalChapters"`
	CompletedChapters int64              `json:"completedChapters"`
	IsCompleted       bool               `json:"isCompleted"`
	CreatedAt         time.Time          `json:"createdAt"`
	CompletedAt       *time.Time         `json:"completedAt"`
}

// ListCourses 学习进度按已完成章节计算，无章节时沿用生成进度
func (s *CourseService) ListCourses(userID uint) ([]CourseSummary, error) {
	courses, err := s.CourseRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	chapterCounts, err := s.ChapterRepo.CountByCourses(ids)
	if err != nil {
		return nil, err
	}
	completedCounts, err := s.ProgressRepo.CompletedChaptersByCourse(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		total := chapterCounts[c.ID]
		completed := completedCounts[c.ID]
		progress := c.Progress
		if total > 0 {
			progress = util.Percentage(completed, total)
		}
		summaries = append(summaries, CourseSummary{
			ID:                c.ID,
			Title:             c.Title,
			Topic:             c.Topic,
			Difficulty:        c.Difficulty,
			Duration:          c.Duration,
			Category:          c.Category,
			Description:       c.Description,
			Language:          c.Language,
			Status:            c.Status,
			Progress:          progress,
			TotalChapters:     total,
			CompletedChapters: completed,
			IsCompleted:       c.Status == model.CourseCompleted,
			CreatedAt:         c.CreatedAt,
			CompletedAt:       c.CompletedAt,
		})
	}
	return summaries, nil
}

type OverallProgress struct {
	TotalChapters        int  `json:"totalChapters"`
	CompletedChapters    int  `json:"completedChapters"`
	CompletionPercentage int  `json:"completionPercentage"`
	IsCompleted          bool `json:"isCompleted"`
}

type ChapterUserProgress struct {
	Completed bool    `json:"completed"`
	TimeSpent int     `json:"timeSpent"`
	Notes     *string `json:"notes"`
}

type HomeworkProgressView struct {
	TotalProblems        int  `json:"totalProblems"`
	SolvedProblems       int  `json:"solvedProblems"`
	CompletionPercentage int  `json:"completionPercentage"`
	IsCompleted          bool `json:"isCompleted"`
}

type ChapterDetail struct {
	model.Chapter
	UserProgress     ChapterUserProgress  `json:"userProgress"`
	HomeworkProgress HomeworkProgressView `json:"homeworkProgress"`
}

type CourseDetail struct {
	model.Course
	Chapters        []ChapterDetail `json:"chapters"`
	OverallProgress OverallProgress `json:"overallProgress"`
}

// GetCourseDetail 课程、章节（视频、知识点）及当前用户的进度
func (s *CourseService) GetCourseDetail(userID, courseID uint) (*CourseDetail, error) {
	course, err := s.findOwnedCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.ChapterRepo.ListByCourse(course.ID)
	if err != nil {
		return nil, err
	}

	chapterIDs := make([]uint, 0, len(chapters))
	for _, ch := range chapters {
		chapterIDs = append(chapterIDs, ch.ID)
	}
	userProgress, err := s.ProgressRepo.ListUserProgress(userID, course.ID)
	if err != nil {
		return nil, err
	}
	homeworkProgress, err := s.ProgressRepo.ListChapterProgress(userID, chapterIDs)
	if err != nil {
		return nil, err
	}

	upMap := make(map[uint]model.UserProgress, len(userProgress))
	for _, up := range userProgress {
		upMap[up.ChapterID] = up
	}
	hpMap := make(map[uint]model.ChapterProgress, len(homeworkProgress))
	for _, hp := range homeworkProgress {
		hpMap[hp.ChapterID] = hp
	}

	detail := &CourseDetail{Course: *course, Chapters: make([]ChapterDetail, 0, len(chapters))}
	completed := 0
	for _, ch := range chapters {
		cd := ChapterDetail{Chapter: ch}
		if up, ok := upMap[ch.ID]; ok {
			cd.UserProgress = ChapterUserProgress{Completed: up.Completed, TimeSpent: up.TimeSpentMinutes, Notes: up.Notes}
		}
		if hp, ok := hpMap[ch.ID]; ok {
			cd.HomeworkProgress = HomeworkProgressView{
				TotalProblems:        hp.TotalProblems,
				SolvedProblems:       hp.SolvedProblems,
				CompletionPercentage: hp.CompletionPercentage,
				IsCompleted:          hp.IsCompleted,
			}
			if hp.IsCompleted {
				completed++
			}
		}
		detail.Chapters = append(detail.Chapters, cd)
	}

	total := len(chapters)
	detail.OverallProgress = OverallProgress{
		TotalChapters:        total,
		CompletedChapters:    completed,
		CompletionPercentage: util.Percentage(int64(completed), int64(total)),
		IsCompleted:          total > 0 && completed >= total,
	}
	return detail, nil
}

func (s *CourseService) findOwnedCourse(userID, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDForUser(courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}
