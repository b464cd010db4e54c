package model

import "time"

// PlanExport is the top-level JSON structure for the export subcommand.
type PlanExport struct {
	ExportedAt time.Time   `json:"exported_at"`
	PlanCount  int         `json:"plan_count"`
	Plans      []StudyPlan `json:"plans"`
}
