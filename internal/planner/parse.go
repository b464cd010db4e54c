package planner

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/exampill/studyplanner/internal/model"
)

// planSchema is the shape a JSON completion must satisfy before it is trusted.
// Item keys stay open because models vary them; normalizeTopic sorts that out.
const planSchema = `{
	"type": "object",
	"required": ["topics"],
	"properties": {
		"topics": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var (
	topicLineRe = regexp.MustCompile(`^(.*\S)\s*(?:[—–:-]|--)\s*(?i:(high|medium|low))\s*$`)
	bulletRe    = regexp.MustCompile(`^\s*(?:[-*•]\s+|\d+[.)]\s+)`)
	jsonObjRe   = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArrRe   = regexp.MustCompile(`(?s)\[.*\]`)
)

// ParseCompletion parses completion text into an ordered topic list. It tries
// schema-validated JSON first and falls back to scanning for "topic — priority"
// lines, skipping anything that matches neither. Empty or fully unparseable
// text yields an empty list.
func ParseCompletion(text string) []model.TopicWeight {
	text = CleanOutput(text)
	if text == "" {
		return nil
	}
	if topics, ok := parsePlanJSON(text); ok {
		return topics
	}
	if embedded := ExtractJSON(text); embedded != "" && embedded != text {
		if topics, ok := parsePlanJSON(embedded); ok {
			return topics
		}
	}
	return parsePlanLines(text)
}

// CleanOutput strips markdown code fences the model wraps around JSON.
func CleanOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ExtractJSON returns the first JSON object (or, failing that, array)
// embedded in free-form text, or "" when none is found.
func ExtractJSON(text string) string {
	if m := jsonObjRe.FindString(text); m != "" {
		return m
	}
	return jsonArrRe.FindString(text)
}

func parsePlanJSON(text string) ([]model.TopicWeight, bool) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(planSchema),
		gojsonschema.NewStringLoader(text),
	)
	if err != nil || !result.Valid() {
		return nil, false
	}

	var doc struct {
		Topics []map[string]any `json:"topics"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, false
	}

	var topics []model.TopicWeight
	for _, raw := range doc.Topics {
		t := normalizeTopic(raw)
		if t.Name == "" {
			continue
		}
		topics = append(topics, t)
	}
	return topics, true
}

// normalizeTopic maps the key variants models emit onto TopicWeight.
func normalizeTopic(raw map[string]any) model.TopicWeight {
	return model.TopicWeight{
		Name:           firstString(raw, "name", "topic", "title"),
		Weightage:      model.ParseWeightage(firstString(raw, "weightage", "weight", "priority")),
		EstimatedHours: intValue(raw, "estimated_hours", "estimatedHours", "hours"),
		KeyConcepts:    stringSlice(raw, "key_concepts", "keyConcepts", "concepts"),
		Rationale:      firstString(raw, "rationale", "reasoning", "reason"),
	}
}

func parsePlanLines(text string) []model.TopicWeight {
	var topics []model.TopicWeight
	for _, line := range strings.Split(text, "\n") {
		line = bulletRe.ReplaceAllString(line, "")
		m := topicLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		topics = append(topics, model.TopicWeight{
			Name:      strings.TrimSpace(m[1]),
			Weightage: model.ParseWeightage(m[2]),
		})
	}
	return topics
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func intValue(raw map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

func stringSlice(raw map[string]any, keys ...string) []string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}
