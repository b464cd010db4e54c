// Package intake validates exam metadata submitted through the intake form.
package intake

import (
	"strings"

	"github.com/exampill/studyplanner/internal/model"
)

// Form field names, shared with the handler and views.
const (
	FieldSubject  = "subject"
	FieldExamName = "exam_name"
	FieldExamDate = "exam_date"
	FieldTopics   = "topics"
	FieldNotes    = "notes"
)

// FormValues holds the raw form fields before validation.
type FormValues struct {
	Subject  string
	ExamName string
	ExamDate string
	Topics   string // one topic per line, commas also accepted
	Notes    string
}

// ValidationError reports missing or malformed form fields. It is recovered
// locally by re-rendering the form and never surfaced as a 500.
type ValidationError struct {
	Fields map[string]string // field name -> message ID
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	return "invalid form fields: " + strings.Join(names, ", ")
}

// Parse trims and validates raw form values, producing an ExamRequest.
// Subject and at least one topic are required.
func Parse(v FormValues) (model.ExamRequest, error) {
	req := model.ExamRequest{
		Subject:  strings.TrimSpace(v.Subject),
		ExamName: strings.TrimSpace(v.ExamName),
		ExamDate: strings.TrimSpace(v.ExamDate),
		Topics:   SplitTopics(v.Topics),
		Notes:    strings.TrimSpace(v.Notes),
	}

	fields := make(map[string]string)
	if req.Subject == "" {
		fields[FieldSubject] = "ErrSubjectRequired"
	}
	if len(req.Topics) == 0 {
		fields[FieldTopics] = "ErrTopicsRequired"
	}
	if len(fields) > 0 {
		return model.ExamRequest{}, &ValidationError{Fields: fields}
	}
	return req, nil
}

// SplitTopics splits a topics field on newlines and commas, trims each entry,
// and drops blanks.
func SplitTopics(raw string) []string {
	var topics []string
	for _, line := range strings.Split(raw, "\n") {
		for _, part := range strings.Split(line, ",") {
			if t := strings.TrimSpace(part); t != "" {
				topics = append(topics, t)
			}
		}
	}
	return topics
}
