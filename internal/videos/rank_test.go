package videos

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/exampill/studyplanner/internal/planner"
)

func testVideos() []Video {
	return []Video{
		{ID: "vid1", Title: "Intro", Channel: "Ch1", URL: "https://www.youtube.com/watch?v=vid1"},
		{ID: "vid2", Title: "Deep dive", Channel: "Ch2", URL: "https://www.youtube.com/watch?v=vid2"},
		{ID: "vid3", Title: "Exam prep", Channel: "Ch3", URL: "https://www.youtube.com/watch?v=vid3"},
	}
}

func TestRankWithModelOrder(t *testing.T) {
	mock := &planner.MockCompleter{Response: `{"ranked_videos": [
		{"video_id": "vid3", "rank": 1, "reasoning": "most exam focused"},
		{"video_id": "vid1", "rank": 2, "reasoning": "good intro"}
	]}`}
	r := NewRanker(mock, 5)

	recs := r.Rank(context.Background(), "Algorithms", "Final", testVideos())
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].VideoID != "vid3" || recs[1].VideoID != "vid1" {
		t.Errorf("order = [%s %s], want [vid3 vid1]", recs[0].VideoID, recs[1].VideoID)
	}
	if recs[0].Reasoning != "most exam focused" {
		t.Errorf("Reasoning = %q", recs[0].Reasoning)
	}
	if recs[0].Title != "Exam prep" || recs[0].URL != "https://www.youtube.com/watch?v=vid3" {
		t.Errorf("merged entry = %+v, want fields from the search result", recs[0])
	}
	if recs[0].Topic != "Algorithms" {
		t.Errorf("Topic = %q, want Algorithms", recs[0].Topic)
	}
}

func TestRankCapsAtMax(t *testing.T) {
	r := NewRanker(nil, 2)
	recs := r.Rank(context.Background(), "Algorithms", "Final", testVideos())
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].VideoID != "vid1" || recs[1].VideoID != "vid2" {
		t.Errorf("order = [%s %s], want search order", recs[0].VideoID, recs[1].VideoID)
	}
}

func TestRankCompletionFailureKeepsSearchOrder(t *testing.T) {
	mock := &planner.MockCompleter{Err: errors.New("quota exceeded")}
	r := NewRanker(mock, 5)

	recs := r.Rank(context.Background(), "Algorithms", "Final", testVideos())
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	for i, want := range []string{"vid1", "vid2", "vid3"} {
		if recs[i].VideoID != want {
			t.Errorf("recs[%d].VideoID = %s, want %s", i, recs[i].VideoID, want)
		}
	}
}

func TestRankFallsBackToIDMentions(t *testing.T) {
	mock := &planner.MockCompleter{
		Response: "I would start with vid2, then watch vid1. Skip the rest.",
	}
	r := NewRanker(mock, 5)

	recs := r.Rank(context.Background(), "Algorithms", "Final", testVideos())
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].VideoID != "vid2" || recs[1].VideoID != "vid1" {
		t.Errorf("order = [%s %s], want mention order [vid2 vid1]", recs[0].VideoID, recs[1].VideoID)
	}
}

func TestRankUnknownIDsFallBackToSearchOrder(t *testing.T) {
	mock := &planner.MockCompleter{Response: `{"ranked_videos": [
		{"video_id": "bogus1", "rank": 1},
		{"video_id": "bogus2", "rank": 2}
	]}`}
	r := NewRanker(mock, 2)

	recs := r.Rank(context.Background(), "Algorithms", "Final", testVideos())
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].VideoID != "vid1" || recs[1].VideoID != "vid2" {
		t.Errorf("order = [%s %s], want search order", recs[0].VideoID, recs[1].VideoID)
	}
}

func TestRankEmptyInput(t *testing.T) {
	r := NewRanker(nil, 5)
	if recs := r.Rank(context.Background(), "Algorithms", "Final", nil); recs != nil {
		t.Errorf("Rank(nil videos) = %+v, want nil", recs)
	}
}

func TestParseRanking(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantIDs []string
	}{
		{
			name:    "wrapped object",
			text:    `{"ranked_videos": [{"video_id": "a", "rank": 1}, {"video_id": "b", "rank": 2}]}`,
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "bare array",
			text:    `[{"video_id": "a", "rank": 1}]`,
			wantIDs: []string{"a"},
		},
		{
			name:    "fenced",
			text:    "```json\n{\"ranked_videos\": [{\"video_id\": \"a\", \"rank\": 1}]}\n```",
			wantIDs: []string{"a"},
		},
		{
			name:    "prose around json",
			text:    `Sure! {"ranked_videos": [{"video_id": "a", "rank": 1}]} Hope that helps.`,
			wantIDs: []string{"a"},
		},
		{
			name:    "no json",
			text:    "watch the first one",
			wantIDs: nil,
		},
		{
			name:    "empty",
			text:    "",
			wantIDs: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRanking(tt.text)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].VideoID != id {
					t.Errorf("entry %d id = %s, want %s", i, got[i].VideoID, id)
				}
			}
		})
	}
}

func TestStaticLookup(t *testing.T) {
	vids, err := StaticLookup{}.Search(context.Background(), "Linear Algebra", "Midterm")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(vids) != 1 {
		t.Fatalf("got %d videos, want 1", len(vids))
	}
	if !strings.Contains(vids[0].URL, "results?search_query=") {
		t.Errorf("URL = %q, want a YouTube search link", vids[0].URL)
	}
	if !strings.Contains(vids[0].URL, "Linear+Algebra") {
		t.Errorf("URL = %q, should embed the escaped query", vids[0].URL)
	}
}

func TestServiceRecommendLookupError(t *testing.T) {
	fail := LookupFunc(func(context.Context, string, string) ([]Video, error) {
		return nil, errors.New("api unavailable")
	})
	svc := NewService(fail, NewRanker(nil, 5))

	recs, err := svc.Recommend(context.Background(), "Algorithms", "Final")
	if err == nil {
		t.Fatal("Recommend should return the lookup error")
	}
	if recs != nil {
		t.Errorf("recs = %+v, want nil", recs)
	}
}

func TestServiceRecommend(t *testing.T) {
	ok := LookupFunc(func(context.Context, string, string) ([]Video, error) {
		return testVideos(), nil
	})
	svc := NewService(ok, NewRanker(nil, 5))

	recs, err := svc.Recommend(context.Background(), "Algorithms", "Final")
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("got %d recommendations, want 3", len(recs))
	}
}
