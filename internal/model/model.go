package model

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Weightage is the priority the model assigns to an exam topic.
type Weightage string

const (
	WeightageHigh   Weightage = "HIGH"
	WeightageMedium Weightage = "MEDIUM"
	WeightageLow    Weightage = "LOW"
)

// rank maps weightages to sort order, HIGH first.
func (w Weightage) rank() int {
	switch w {
	case WeightageHigh:
		return 0
	case WeightageMedium:
		return 1
	case WeightageLow:
		return 2
	default:
		return 1
	}
}

// ParseWeightage normalizes free-form weightage text from the model.
// Unrecognized values default to MEDIUM.
func ParseWeightage(s string) Weightage {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "high"):
		return WeightageHigh
	case strings.Contains(v, "med"):
		return WeightageMedium
	case strings.Contains(v, "low"):
		return WeightageLow
	default:
		return WeightageMedium
	}
}

// ExamRequest holds the exam metadata submitted through the intake form.
// It is immutable once built and scoped to a single request.
type ExamRequest struct {
	Subject  string   `json:"subject"`
	ExamName string   `json:"exam_name"`
	ExamDate string   `json:"exam_date"`
	Topics   []string `json:"topics"`
	Notes    string   `json:"notes"`
}

// TopicWeight is one topic of the analysis result.
type TopicWeight struct {
	Name           string    `json:"name"`
	Weightage      Weightage `json:"weightage"`
	EstimatedHours int       `json:"estimated_hours"`
	KeyConcepts    []string  `json:"key_concepts"`
	Rationale      string    `json:"rationale,omitempty"`
}

// VideoRecommendation is a study video suggested for a topic. Topic always
// names a topic present in the same plan.
type VideoRecommendation struct {
	Topic     string `json:"topic"`
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	URL       string `json:"url"`
	Rank      int    `json:"rank"`
	Reasoning string `json:"reasoning,omitempty"`
}

// StudyPlan is one generated analysis, persisted per browser session so the
// dashboard, topics, and video pages can serve later requests.
type StudyPlan struct {
	ID        string        `json:"id"`
	Request   ExamRequest   `json:"request"`
	Topics    []TopicWeight `json:"topics"`
	CreatedAt time.Time     `json:"created_at"`
}

// Session identifies a browser for "most recent analysis" lookups.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SortTopics orders topics HIGH before MEDIUM before LOW, preserving the
// original order within equal weightage.
func SortTopics(topics []TopicWeight) {
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Weightage.rank() < topics[j].Weightage.rank()
	})
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	RequestTimeout time.Duration // per upstream call, single attempt
	MaxVideoTopics int           // topics eligible for video lookup, 0 = all
	SecureCookies  bool
}

// FormView carries raw form values and per-field errors back into the intake
// form template.
type FormView struct {
	Subject  string
	ExamName string
	ExamDate string
	Topics   string
	Notes    string
	Errors   map[string]string
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
