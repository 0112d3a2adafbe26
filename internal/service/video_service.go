package service

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/util"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// VideoFinder 视频检索能力，未配置时为 nil
type VideoFinder interface {
	Search(ctx context.Context, query VideoQuery) ([]VideoResult, error)
}

type VideoQuery struct {
	Phrase     string
	Language   string
	MaxResults int64
}

type VideoResult struct {
	VideoID      string
	Title        string
	ChannelName  string
	ThumbnailURL string
	Duration     string
	ViewCount    int64
	PublishedAt  *time.Time
}

// ChapterVideoPhrase 章节视频检索词
func ChapterVideoPhrase(topic, chapterTitle, difficulty string) string {
	return fmt.Sprintf("%s %s %s tutorial", topic, chapterTitle, difficulty)
}

type YouTubeService struct {
	svc        *youtube.Service
	maxResults int64
}

func NewYouTubeService(ctx context.Context, cfg config.YouTubeConfig, opts ...option.ClientOption) (*YouTubeService, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	max := cfg.MaxResults
	if max <= 0 {
		max = util.MaxVideosPerChapter
	}
	return &YouTubeService{svc: svc, maxResults: max}, nil
}

// NewVideoFinder 未配置 API Key 时返回 nil 接口
func NewVideoFinder(ctx context.Context, cfg config.YouTubeConfig) (VideoFinder, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	svc, err := NewYouTubeService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *YouTubeService) Search(ctx context.Context, query VideoQuery) ([]VideoResult, error) {
	max := query.MaxResults
	if max <= 0 {
		max = s.maxResults
	}

	lang := "en"
	if strings.EqualFold(query.Language, "Hindi") {
		lang = "hi"
	}

	search, err := s.svc.Search.List([]string{"snippet"}).
		Q(query.Phrase + " explained").
		Type("video").
		MaxResults(max).
		VideoDuration("medium").
		VideoDefinition("high").
		RelevanceLanguage(lang).
		Order("relevance").
		SafeSearch("strict").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []VideoResult{}, nil
	}

	details, err := s.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}

	results := make([]VideoResult, 0, len(details.Items))
	for _, item := range details.Items {
		results = append(results, toVideoResult(item))
	}
	return results, nil
}

func toVideoResult(item *youtube.Video) VideoResult {
	v := VideoResult{VideoID: item.Id, Duration: "Unknown"}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.ChannelName = item.Snippet.ChannelTitle
		if t := item.Snippet.Thumbnails; t != nil {
			switch {
			case t.High != nil:
				v.ThumbnailURL = t.High.Url
			case t.Default != nil:
				v.ThumbnailURL = t.Default.Url
			}
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.PublishedAt = &ts
		}
	}
	if item.ContentDetails != nil {
		v.Duration = FormatISODuration(item.ContentDetails.Duration)
	}
	if item.Statistics != nil {
		v.ViewCount = int64(item.Statistics.ViewCount)
	}
	return v
}

var isoDurationPattern = regexp.MustCompile(`PT(\d+H)?(\d+M)?(\d+S)?`)

// FormatISODuration 将 PT1H2M3S 转为 "1h 2m 3s"
func FormatISODuration(d string) string {
	m := isoDurationPattern.FindStringSubmatch(d)
	if m == nil {
		return "Unknown"
	}
	parts := make([]string, 0, 3)
	for i, unit := range []string{"h", "m", "s"} {
		raw := strings.TrimRight(m[i+1], "HMS")
		n, _ := strconv.Atoi(raw)
		if n > 0 {
			parts = append(parts, strconv.Itoa(n)+unit)
		}
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
