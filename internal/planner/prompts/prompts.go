// Package prompts builds the natural-language prompts sent to the completion
// endpoint from embedded text templates.
package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/exampill/studyplanner/internal/model"
)

//go:embed plan.txt
var planText string

//go:embed rank.txt
var rankText string

var (
	planTmpl = template.Must(template.New("plan").Parse(planText))
	rankTmpl = template.Must(template.New("rank").Parse(rankText))
)

// RankData holds template data for video ranking prompts.
type RankData struct {
	Topic      string
	ExamName   string
	VideosJSON string
	Max        int
}

// BuildPlanPrompt renders the study-plan prompt for an exam request.
func BuildPlanPrompt(req model.ExamRequest) (string, error) {
	var buf bytes.Buffer
	if err := planTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildRankPrompt renders the video-ranking prompt. The candidate videos are
// embedded as a JSON array so the model can echo their IDs back.
func BuildRankPrompt(topic, examName string, videos any, max int) (string, error) {
	vids, err := json.Marshal(videos)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = rankTmpl.Execute(&buf, RankData{
		Topic:      topic,
		ExamName:   examName,
		VideosJSON: string(vids),
		Max:        max,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
