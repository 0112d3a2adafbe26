package service

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/pkg/monitoring"
	"ai_tutor_backend/pkg/tracing"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// ContentGenerator AI 内容生成能力，返回模型原始文本，由调用方解析
type ContentGenerator interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) (string, error)
	GenerateNotes(ctx context.Context, req NotesRequest) (string, error)
	GenerateHomework(ctx context.Context, req HomeworkRequest) (string, error)
	GradeSolution(ctx context.Context, req GradeRequest) (string, error)
	GenerateHint(ctx context.Context, req HintRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

type OutlineRequest struct {
	Topic        string
	Difficulty   string
	Duration     int
	Language     string
	Category     string
	ChapterCount int
}

type NotesRequest struct {
	ChapterTitle string
	Topic        string
	Difficulty   string
	Language     string
}

type HomeworkRequest struct {
	CourseTitle        string
	ChapterTitle       string
	ChapterDescription string
	ChapterNotes       string
}

type GradeRequest struct {
	ChapterTitle     string
	ChapterNotes     string
	ProblemTitle     string
	Description      string
	ExpectedApproach string
	Solution         string
	// data:image/...;base64,... 形式
	ImageDataURL string
}

type HintRequest struct {
	ChapterTitle string
	ProblemTitle string
	Description  string
}

type ChatRequest struct {
	Message      string
	ChapterTitle string
	ChapterNotes string
	History      []ChatTurn
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIService OpenAI 兼容的 chat/completions 客户端
type AIService struct {
	config  config.AIConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &AIService{
		config:  cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// NewContentGenerator 未配置 API Key 时返回 nil 接口
func NewContentGenerator(cfg config.AIConfig) ContentGenerator {
	if !cfg.Configured() {
		return nil
	}
	return NewAIService(cfg)
}

type AIChatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) GenerateOutline(ctx context.Context, req OutlineRequest) (string, error) {
	return s.complete(ctx, "outline", userMessage(outlinePrompt(req)))
}

func (s *AIService) GenerateNotes(ctx context.Context, req NotesRequest) (string, error) {
	return s.complete(ctx, "notes", userMessage(notesPrompt(req)))
}

func (s *AIService) GenerateHomework(ctx context.Context, req HomeworkRequest) (string, error) {
	return s.complete(ctx, "homework", userMessage(homeworkPrompt(req)))
}

func (s *AIService) GradeSolution(ctx context.Context, req GradeRequest) (string, error) {
	prompt := gradePrompt(req)
	if req.ImageDataURL == "" {
		return s.complete(ctx, "grade", userMessage(prompt))
	}
	msg := AIChatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: req.ImageDataURL}},
		},
	}
	return s.complete(ctx, "grade", []AIChatMessage{msg})
}

func (s *AIService) GenerateHint(ctx context.Context, req HintRequest) (string, error) {
	return s.complete(ctx, "hint", userMessage(hintPrompt(req)))
}

func (s *AIService) Chat(ctx context.Context, req ChatRequest) (string, error) {
	return s.complete(ctx, "chat", userMessage(chatPrompt(req)))
}

func userMessage(prompt string) []AIChatMessage {
	return []AIChatMessage{{Role: "user", Content: prompt}}
}

func (s *AIService) complete(ctx context.Context, operation string, messages []AIChatMessage) (string, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ai."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", s.config.Model),
		attribute.String("ai.operation", operation),
	)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	defer monitoring.ObserveAI(operation, start)

	content, err := s.do(ctx, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return content, nil
}

func (s *AIService) do(ctx context.Context, messages []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(s.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, truncate(string(body), 500))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// truncate 按字符截断
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
