// Package planner turns an exam request into a weighted topic breakdown by
// prompting a generative-AI completion endpoint once and leniently parsing
// the reply.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/exampill/studyplanner/internal/model"
	"github.com/exampill/studyplanner/internal/planner/prompts"
)

// Completer is the injected completion capability: given a prompt, return the
// model's text reply. Implementations may block on network I/O; timeouts and
// cancellation arrive through ctx.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// UpstreamError wraps a failed completion call (auth, network, quota,
// timeout). The HTTP layer renders it as a generic "try again later" page.
// Single attempt per request, no retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client builds study plans from exam requests.
type Client struct {
	completer Completer
	maxTopics int
}

// New creates a planner client. maxTopics caps the analysis result, 0 means
// no cap.
func New(c Completer, maxTopics int) *Client {
	return &Client{completer: c, maxTopics: maxTopics}
}

// AnalyzeTopics prompts the completion endpoint and parses the reply into an
// ordered topic list, HIGH weightage first. An empty or unparseable reply
// yields an empty list, not an error; a failed call yields an UpstreamError.
func (c *Client) AnalyzeTopics(ctx context.Context, req model.ExamRequest) ([]model.TopicWeight, error) {
	prompt, err := prompts.BuildPlanPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("build plan prompt: %w", err)
	}

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, &UpstreamError{Op: "topic analysis", Err: err}
	}

	topics := ParseCompletion(raw)
	model.SortTopics(topics)
	if c.maxTopics > 0 && len(topics) > c.maxTopics {
		topics = topics[:c.maxTopics]
	}
	slog.Debug("analyzed topics", "subject", req.Subject, "topics", len(topics))
	return topics, nil
}
