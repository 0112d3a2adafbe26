package service_test

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestYouTubeSearchFetchesDetails(t *testing.T) {
	var searchQuery, searchLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			searchQuery = r.URL.Query().Get("q")
			searchLang = r.URL.Query().Get("relevanceLanguage")
			_, _ = w.Write([]byte(`{"items": [{"id": {"videoId": "abc"}}, {"id": {"videoId": "def"}}]}`))
		case strings.HasSuffix(r.URL.Path, "/videos"):
			assert.Equal(t, "abc,def", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(`{"items": [{
				"id": "abc",
				"snippet": {"title": "Go in 10 minutes", "channelTitle": "Gopher", "publishedAt": "2024-01-02T03:04:05Z",
					"thumbnails": {"high": {"url": "https://img/high.jpg"}}},
				"contentDetails": {"duration": "PT10M5S"},
				"statistics": {"viewCount": "1234"}
			}, {"id": "def"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	yt, err := service.NewYouTubeService(context.Background(),
		config.YouTubeConfig{APIKey: "key", MaxResults: 3},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	results, err := yt.Search(context.Background(), service.VideoQuery{
		Phrase:   service.ChapterVideoPhrase("Go", "Basics", "beginner"),
		Language: "Hindi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics beginner tutorial explained", searchQuery)
	assert.Equal(t, "hi", searchLang)

	require.Len(t, results, 2)
	first := results[0]
	assert.Equal(t, "abc", first.VideoID)
	assert.Equal(t, "Go in 10 minutes", first.Title)
	assert.Equal(t, "Gopher", first.ChannelName)
	assert.Equal(t, "https://img/high.jpg", first.ThumbnailURL)
	assert.Equal(t, "10m 5s", first.Duration)
	assert.Equal(t, int64(1234), first.ViewCount)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2024, first.PublishedAt.Year())

	assert.Equal(t, "Unknown", results[1].Duration)
}

func TestNewVideoFinderWithoutKey(t *testing.T) {
	finder, err := service.NewVideoFinder(context.Background(), config.YouTubeConfig{})
	require.NoError(t, err)
	assert.Nil(t, finder)
}
