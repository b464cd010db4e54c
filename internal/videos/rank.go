package videos

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/exampill/studyplanner/internal/model"
	"github.com/exampill/studyplanner/internal/planner"
	"github.com/exampill/studyplanner/internal/planner/prompts"
)

// rankedVideo is the shape the ranking completion is asked to return.
type rankedVideo struct {
	VideoID   string `json:"video_id"`
	Rank      int    `json:"rank"`
	Reasoning string `json:"reasoning"`
}

// Ranker orders search results with a second completion call. Every failure
// mode degrades: bad JSON falls back to id-mention order, and anything else
// falls back to search order. Ranking never fails a page.
type Ranker struct {
	completer planner.Completer
	max       int
}

// NewRanker creates a ranker keeping at most max videos per topic.
// A nil completer skips model ranking and keeps search order.
func NewRanker(c planner.Completer, max int) *Ranker {
	if max <= 0 {
		max = 5
	}
	return &Ranker{completer: c, max: max}
}

// Rank merges ranking output with the full video entries for one topic.
func (r *Ranker) Rank(ctx context.Context, topic, examName string, vids []Video) []model.VideoRecommendation {
	if len(vids) == 0 {
		return nil
	}

	var ranked []rankedVideo
	if r.completer != nil {
		ranked = r.rankWithModel(ctx, topic, examName, vids)
	}
	if len(ranked) == 0 {
		ranked = searchOrder(vids, r.max)
	}

	byID := make(map[string]Video, len(vids))
	for _, v := range vids {
		byID[v.ID] = v
	}

	var recs []model.VideoRecommendation
	for _, rv := range ranked {
		v, ok := byID[rv.VideoID]
		if !ok {
			continue
		}
		recs = append(recs, model.VideoRecommendation{
			Topic:     topic,
			VideoID:   v.ID,
			Title:     v.Title,
			Channel:   v.Channel,
			URL:       v.URL,
			Rank:      rv.Rank,
			Reasoning: rv.Reasoning,
		})
		if len(recs) >= r.max {
			break
		}
	}
	if len(recs) == 0 {
		// Model ranked only IDs we never offered; keep search order instead.
		for _, rv := range searchOrder(vids, r.max) {
			v := byID[rv.VideoID]
			recs = append(recs, model.VideoRecommendation{
				Topic:   topic,
				VideoID: v.ID,
				Title:   v.Title,
				Channel: v.Channel,
				URL:     v.URL,
				Rank:    rv.Rank,
			})
		}
	}
	return recs
}

func (r *Ranker) rankWithModel(ctx context.Context, topic, examName string, vids []Video) []rankedVideo {
	prompt, err := prompts.BuildRankPrompt(topic, examName, vids, r.max)
	if err != nil {
		slog.Warn("build rank prompt failed", "topic", topic, "error", err)
		return nil
	}
	raw, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("video ranking failed, keeping search order", "topic", topic, "error", err)
		return nil
	}
	if ranked := parseRanking(raw); ranked != nil {
		return ranked
	}
	return rankByMention(raw, vids, r.max)
}

// parseRanking decodes the ranking JSON, tolerating fences and surrounding
// prose. Returns nil when no usable JSON is found.
func parseRanking(text string) []rankedVideo {
	doc := planner.ExtractJSON(planner.CleanOutput(text))
	if doc == "" {
		return nil
	}

	var obj struct {
		RankedVideos []rankedVideo `json:"ranked_videos"`
	}
	if err := json.Unmarshal([]byte(doc), &obj); err == nil && len(obj.RankedVideos) > 0 {
		return obj.RankedVideos
	}

	var arr []rankedVideo
	if err := json.Unmarshal([]byte(doc), &arr); err == nil && len(arr) > 0 {
		return arr
	}
	return nil
}

// rankByMention orders videos by where their IDs first appear in the raw
// completion text, earlier meaning higher rank.
func rankByMention(text string, vids []Video, max int) []rankedVideo {
	type mention struct {
		id  string
		pos int
	}
	var mentions []mention
	for _, v := range vids {
		if v.ID == "" {
			continue
		}
		if pos := strings.Index(text, v.ID); pos != -1 {
			mentions = append(mentions, mention{id: v.ID, pos: pos})
		}
	}
	if len(mentions) == 0 {
		return nil
	}
	sort.Slice(mentions, func(i, j int) bool { return mentions[i].pos < mentions[j].pos })

	var ranked []rankedVideo
	for i, m := range mentions {
		if i >= max {
			break
		}
		ranked = append(ranked, rankedVideo{VideoID: m.id, Rank: i + 1})
	}
	return ranked
}

func searchOrder(vids []Video, max int) []rankedVideo {
	var ranked []rankedVideo
	for i, v := range vids {
		if i >= max {
			break
		}
		ranked = append(ranked, rankedVideo{VideoID: v.ID, Rank: i + 1})
	}
	return ranked
}
