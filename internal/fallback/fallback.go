// Package fallback supplies a static study plan used when the completion
// endpoint yields no topics. A built-in plan is embedded; deployments can
// point the --fallback-plan flag at their own YAML file.
package fallback

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/exampill/studyplanner/internal/model"
)

//go:embed plan.yaml
var builtinPlan []byte

type yamlTopic struct {
	Name           string   `yaml:"name"`
	Weightage      string   `yaml:"weightage"`
	EstimatedHours int      `yaml:"estimated_hours"`
	KeyConcepts    []string `yaml:"key_concepts"`
	Rationale      string   `yaml:"rationale"`
}

type yamlPlan struct {
	Topics []yamlTopic `yaml:"topics"`
}

// Load parses a fallback plan from the given YAML file, or the embedded plan
// when path is empty.
func Load(path string) ([]model.TopicWeight, error) {
	data := builtinPlan
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fallback plan: %w", err)
		}
	}

	var doc yamlPlan
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fallback plan: %w", err)
	}
	if len(doc.Topics) == 0 {
		return nil, errors.New("fallback plan has no topics")
	}

	topics := make([]model.TopicWeight, 0, len(doc.Topics))
	for i, t := range doc.Topics {
		if t.Name == "" {
			return nil, fmt.Errorf("fallback plan topic %d has no name", i)
		}
		topics = append(topics, model.TopicWeight{
			Name:           t.Name,
			Weightage:      model.ParseWeightage(t.Weightage),
			EstimatedHours: t.EstimatedHours,
			KeyConcepts:    t.KeyConcepts,
			Rationale:      t.Rationale,
		})
	}
	model.SortTopics(topics)
	return topics, nil
}
