// Package videos finds and ranks study videos for exam topics. The lookup
// mechanism is pluggable; failures degrade to an empty list per topic and
// never abort a page.
package videos

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/exampill/studyplanner/internal/model"
)

// Video is one raw search result, before ranking.
type Video struct {
	ID      string `json:"video_id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// Lookup returns candidate videos for a topic. An empty result is valid.
type Lookup interface {
	Search(ctx context.Context, topic, examName string) ([]Video, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, topic, examName string) ([]Video, error)

func (f LookupFunc) Search(ctx context.Context, topic, examName string) ([]Video, error) {
	return f(ctx, topic, examName)
}

// searchQuery matches the query the original lookup used.
func searchQuery(topic, examName string) string {
	return strings.TrimSpace(strings.Join([]string{topic, examName, "tutorial"}, " "))
}

// YouTubeLookup searches the YouTube Data API v3.
type YouTubeLookup struct {
	svc        *youtube.Service
	maxResults int64
}

// NewYouTubeLookup creates a live lookup with the given API key.
func NewYouTubeLookup(ctx context.Context, apiKey string, maxResults int64) (*YouTubeLookup, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeLookup{svc: svc, maxResults: maxResults}, nil
}

func (l *YouTubeLookup) Search(ctx context.Context, topic, examName string) ([]Video, error) {
	resp, err := l.svc.Search.List([]string{"snippet"}).
		Q(searchQuery(topic, examName)).
		Type("video").
		MaxResults(l.maxResults).
		VideoDuration("medium").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	var vids []Video
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		vids = append(vids, Video{
			ID:      item.Id.VideoId,
			Title:   item.Snippet.Title,
			Channel: item.Snippet.ChannelTitle,
			URL:     "https://www.youtube.com/watch?v=" + item.Id.VideoId,
		})
	}
	return vids, nil
}

// StaticLookup derives search-link recommendations without calling any API.
// Used when no YouTube API key is configured, so pages always render.
type StaticLookup struct{}

func (StaticLookup) Search(_ context.Context, topic, examName string) ([]Video, error) {
	q := searchQuery(topic, examName)
	return []Video{{
		Title:   "YouTube search: " + q,
		Channel: "YouTube",
		URL:     "https://www.youtube.com/results?search_query=" + url.QueryEscape(q),
	}}, nil
}

// Service combines a lookup with a ranker.
type Service struct {
	lookup Lookup
	ranker *Ranker
}

// NewService creates a recommendation service.
func NewService(lookup Lookup, ranker *Ranker) *Service {
	return &Service{lookup: lookup, ranker: ranker}
}

// Recommend returns ranked recommendations for one topic. A lookup failure is
// returned so the caller can degrade to an empty list for that topic; ranking
// failures are absorbed by the ranker.
func (s *Service) Recommend(ctx context.Context, topic, examName string) ([]model.VideoRecommendation, error) {
	vids, err := s.lookup.Search(ctx, topic, examName)
	if err != nil {
		return nil, fmt.Errorf("video lookup for %q: %w", topic, err)
	}
	return s.ranker.Rank(ctx, topic, examName, vids), nil
}
