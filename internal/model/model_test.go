package model

import "testing"

func TestParseWeightage(t *testing.T) {
	tests := []struct {
		in   string
		want Weightage
	}{
		{"HIGH", WeightageHigh},
		{"high", WeightageHigh},
		{" Very High Priority ", WeightageHigh},
		{"MEDIUM", WeightageMedium},
		{"med", WeightageMedium},
		{"LOW", WeightageLow},
		{"low priority", WeightageLow},
		{"", WeightageMedium},
		{"unknown", WeightageMedium},
	}
	for _, tt := range tests {
		if got := ParseWeightage(tt.in); got != tt.want {
			t.Errorf("ParseWeightage(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSortTopics(t *testing.T) {
	topics := []TopicWeight{
		{Name: "c", Weightage: WeightageLow},
		{Name: "a1", Weightage: WeightageMedium},
		{Name: "b", Weightage: WeightageHigh},
		{Name: "a2", Weightage: WeightageMedium},
	}
	SortTopics(topics)
	want := []string{"b", "a1", "a2", "c"}
	for i, name := range want {
		if topics[i].Name != name {
			t.Errorf("topics[%d].Name = %s, want %s", i, topics[i].Name, name)
		}
	}
}

func TestSortTopicsUnknownWeightage(t *testing.T) {
	topics := []TopicWeight{
		{Name: "low", Weightage: WeightageLow},
		{Name: "odd", Weightage: Weightage("URGENT")},
		{Name: "high", Weightage: WeightageHigh},
	}
	SortTopics(topics)
	// Unknown weightage sorts with MEDIUM.
	want := []string{"high", "odd", "low"}
	for i, name := range want {
		if topics[i].Name != name {
			t.Errorf("topics[%d].Name = %s, want %s", i, topics[i].Name, name)
		}
	}
}

func TestCSRFTokenContext(t *testing.T) {
	ctx := ContextWithCSRFToken(t.Context(), "tok123")
	if got := CSRFTokenFromContext(ctx); got != "tok123" {
		t.Errorf("CSRFTokenFromContext = %q, want tok123", got)
	}
	if got := CSRFTokenFromContext(t.Context()); got != "" {
		t.Errorf("empty context should yield empty token, got %q", got)
	}
}
