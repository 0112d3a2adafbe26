package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/logger"
	"ai_tutor_backend/pkg/monitoring"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type EnrichmentStep string

const (
	StepNotes    EnrichmentStep = "notes"
	StepHomework EnrichmentStep = "homework"
	StepVideos   EnrichmentStep = "videos"
	StepTopics   EnrichmentStep = "topics"
)

// EnrichmentPolicy 每个步骤失败后是否继续，未列出的步骤视为继续
type EnrichmentPolicy struct {
	ContinueOnError map[EnrichmentStep]bool
}

func DefaultEnrichmentPolicy() EnrichmentPolicy {
	return EnrichmentPolicy{ContinueOnError: map[EnrichmentStep]bool{
		StepNotes:    true,
		StepHomework: true,
		StepVideos:   true,
		StepTopics:   true,
	}}
}

func (p EnrichmentPolicy) continues(step EnrichmentStep) bool {
	cont, ok := p.ContinueOnError[step]
	return !ok || cont
}

// StepFailure 被跳过的步骤失败
type StepFailure struct {
	Step EnrichmentStep
	Err  error
}

func (f StepFailure) Error() string {
	return fmt.Sprintf("%s step: %v", f.Step, f.Err)
}

func (f StepFailure) Unwrap() error { return f.Err }

// ChapterEnricher 为新章节生成笔记、作业、视频和知识点
type ChapterEnricher struct {
	Generator       ContentGenerator
	Videos          VideoFinder
	ChapterRepo     *repository.ChapterRepository
	HomeworkRepo    *repository.HomeworkRepository
	Policy          EnrichmentPolicy
	IncludeHomework bool
}

// Enrich 笔记与视频并行，作业依赖笔记，最后写入知识点。
// 允许继续的失败以 StepFailure 返回，不允许继续的失败作为 error 返回
func (e *ChapterEnricher) Enrich(ctx context.Context, course *model.Course, chapter *model.Chapter, planned model.OutlineChapter) ([]StepFailure, error) {
	var (
		mu       sync.Mutex
		failures []StepFailure
	)
	record := func(step EnrichmentStep, err error) error {
		if err == nil {
			return nil
		}
		monitoring.EnrichmentFailures.WithLabelValues(string(step)).Inc()
		if !e.Policy.continues(step) {
			return StepFailure{Step: step, Err: err}
		}
		logger.Log.Warn("Chapter enrichment step failed",
			zap.String("step", string(step)),
			zap.Uint("course_id", course.ID),
			zap.Uint("chapter_id", chapter.ID),
			zap.Error(err),
		)
		mu.Lock()
		failures = append(failures, StepFailure{Step: step, Err: err})
		mu.Unlock()
		return nil
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := e.NotesStep(ctx, course, chapter)
		return record(StepNotes, err)
	})
	if course.IncludeVideos && e.Videos != nil {
		g.Go(func() error {
			return record(StepVideos, e.VideosStep(ctx, course, chapter))
		})
	}
	if err := g.Wait(); err != nil {
		return failures, err
	}

	if e.IncludeHomework {
		_, err := e.HomeworkStep(ctx, course, chapter)
		if err := record(StepHomework, err); err != nil {
			return failures, err
		}
	}

	if err := record(StepTopics, e.TopicsStep(chapter, planned.Topics)); err != nil {
		return failures, err
	}
	return failures, nil
}

// NotesStep 生成并保存章节笔记，成功后 chapter.AIGeneratedNotes 被更新
func (e *ChapterEnricher) NotesStep(ctx context.Context, course *model.Course, chapter *model.Chapter) (string, error) {
	if e.Generator == nil {
		return "", util.ErrAIServiceNotConfigured
	}
	language := course.Language
	if language == "" {
		language = util.DefaultLanguage
	}
	notes, err := e.Generator.GenerateNotes(ctx, NotesRequest{
		ChapterTitle: chapter.Title,
		Topic:        course.Topic,
		Difficulty:   course.Difficulty,
		Language:     language,
	})
	if err != nil {
		return "", err
	}
	if err := e.ChapterRepo.UpdateNotes(chapter.ID, notes); err != nil {
		return "", err
	}
	chapter.AIGeneratedNotes = &notes
	return notes, nil
}

// HomeworkStep 生成作业题并写入，题号冲突时忽略，返回章节当前全部题目
func (e *ChapterEnricher) HomeworkStep(ctx context.Context, course *model.Course, chapter *model.Chapter) ([]model.HomeworkProblem, error) {
	if e.Generator == nil {
		return nil, util.ErrAIServiceNotConfigured
	}
	// 已有题目时不重复生成
	count, err := e.HomeworkRepo.CountProblems(chapter.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return e.HomeworkRepo.ListProblems(chapter.ID)
	}
	notes := ""
	if chapter.AIGeneratedNotes != nil {
		notes = *chapter.AIGeneratedNotes
	}
	raw, err := e.Generator.GenerateHomework(ctx, HomeworkRequest{
		CourseTitle:        course.Title,
		ChapterTitle:       chapter.Title,
		ChapterDescription: chapter.Description,
		ChapterNotes:       notes,
	})
	if err != nil {
		return nil, err
	}
	generated, err := ParseHomework(raw)
	if err != nil {
		return nil, err
	}

	problems := make([]model.HomeworkProblem, 0, len(generated))
	for i, p := range generated {
		problems = append(problems, model.HomeworkProblem{
			ChapterID:        chapter.ID,
			ProblemNumber:    i + 1,
			Title:            p.Title,
			Description:      p.Description,
			Difficulty:       p.Difficulty,
			ExpectedApproach: p.ExpectedApproach,
			Hints:            p.Hints,
		})
	}
	if err := e.HomeworkRepo.CreateProblems(problems); err != nil {
		return nil, err
	}
	return e.HomeworkRepo.ListProblems(chapter.ID)
}

func (e *ChapterEnricher) VideosStep(ctx context.Context, course *model.Course, chapter *model.Chapter) error {
	if e.Videos == nil {
		return util.ErrVideoServiceNotConfigured
	}
	results, err := e.Videos.Search(ctx, VideoQuery{
		Phrase:     ChapterVideoPhrase(course.Topic, chapter.Title, course.Difficulty),
		Language:   course.Language,
		MaxResults: util.MaxVideosPerChapter,
	})
	if err != nil {
		return err
	}
	if len(results) > util.MaxVideosPerChapter {
		results = results[:util.MaxVideosPerChapter]
	}
	videos := make([]model.ChapterVideo, 0, len(results))
	for _, v := range results {
		videos = append(videos, model.ChapterVideo{
			ChapterID:    chapter.ID,
			VideoID:      v.VideoID,
			Title:        v.Title,
			ChannelName:  v.ChannelName,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
			ViewCount:    v.ViewCount,
			PublishedAt:  v.PublishedAt,
		})
	}
	return e.ChapterRepo.CreateVideos(videos)
}

func (e *ChapterEnricher) TopicsStep(chapter *model.Chapter, planned []model.OutlineTopic) error {
	topics := make([]model.ChapterTopic, 0, len(planned))
	for _, t := range planned {
		if t.TopicName == "" {
			continue
		}
		topics = append(topics, model.ChapterTopic{
			ChapterID:         chapter.ID,
			TopicName:         t.TopicName,
			Explanation:       t.Explanation,
			KeyPoints:         t.KeyPoints,
			Examples:          t.Examples,
			PracticeQuestions: t.PracticeQuestions,
		})
	}
	return e.ChapterRepo.CreateTopics(topics)
}
