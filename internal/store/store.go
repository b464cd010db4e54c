// Package store persists study plans per browser session in sqlite. A plan
// lives until the next submission from the same session or until the session
// expires; nothing else is persisted.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/exampill/studyplanner/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS browser_sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		exam_name TEXT NOT NULL DEFAULT '',
		exam_date TEXT NOT NULL DEFAULT '',
		req_topics TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES browser_sessions(id)
	);

	CREATE TABLE IF NOT EXISTS plan_topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		weightage TEXT NOT NULL,
		estimated_hours INTEGER NOT NULL DEFAULT 0,
		key_concepts TEXT NOT NULL DEFAULT '[]',
		rationale TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (plan_id) REFERENCES plans(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SavePlan stores a plan for a session, replacing any previous plan so the
// session always maps to its most recent analysis. Returns the plan with its
// assigned ID and timestamp.
func (s *Store) SavePlan(sessionID string, plan model.StudyPlan) (model.StudyPlan, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}

	reqTopics, err := json.Marshal(plan.Request.Topics)
	if err != nil {
		return model.StudyPlan{}, fmt.Errorf("marshal request topics: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return model.StudyPlan{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM plan_topics WHERE plan_id IN (SELECT id FROM plans WHERE session_id = ?)`,
		sessionID,
	); err != nil {
		return model.StudyPlan{}, err
	}
	if _, err := tx.Exec(`DELETE FROM plans WHERE session_id = ?`, sessionID); err != nil {
		return model.StudyPlan{}, err
	}

	if _, err := tx.Exec(
		`INSERT INTO plans (id, session_id, subject, exam_name, exam_date, req_topics, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, sessionID, plan.Request.Subject, plan.Request.ExamName,
		plan.Request.ExamDate, string(reqTopics), plan.Request.Notes, plan.CreatedAt,
	); err != nil {
		return model.StudyPlan{}, err
	}

	for i, t := range plan.Topics {
		concepts, err := json.Marshal(t.KeyConcepts)
		if err != nil {
			return model.StudyPlan{}, fmt.Errorf("marshal key concepts: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO plan_topics (plan_id, position, name, weightage, estimated_hours, key_concepts, rationale)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			plan.ID, i, t.Name, t.Weightage, t.EstimatedHours, string(concepts), t.Rationale,
		); err != nil {
			return model.StudyPlan{}, err
		}
	}

	return plan, tx.Commit()
}

// GetPlanBySession returns the session's current plan, or nil when the
// session has none.
func (s *Store) GetPlanBySession(sessionID string) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	var reqTopics string
	err := s.db.QueryRow(
		`SELECT id, subject, exam_name, exam_date, req_topics, notes, created_at
		 FROM plans WHERE session_id = ?`, sessionID,
	).Scan(&plan.ID, &plan.Request.Subject, &plan.Request.ExamName,
		&plan.Request.ExamDate, &reqTopics, &plan.Request.Notes, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(reqTopics), &plan.Request.Topics); err != nil {
		return nil, fmt.Errorf("unmarshal request topics: %w", err)
	}

	topics, err := s.planTopics(plan.ID)
	if err != nil {
		return nil, err
	}
	plan.Topics = topics
	return &plan, nil
}

func (s *Store) planTopics(planID string) ([]model.TopicWeight, error) {
	rows, err := s.db.Query(
		`SELECT name, weightage, estimated_hours, key_concepts, rationale
		 FROM plan_topics WHERE plan_id = ? ORDER BY position`, planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.TopicWeight
	for rows.Next() {
		var t model.TopicWeight
		var concepts string
		if err := rows.Scan(&t.Name, &t.Weightage, &t.EstimatedHours, &concepts, &t.Rationale); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(concepts), &t.KeyConcepts); err != nil {
			return nil, fmt.Errorf("unmarshal key concepts: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// ListPlans returns all stored plans, newest first. Used by the export
// subcommand.
func (s *Store) ListPlans() ([]model.StudyPlan, error) {
	rows, err := s.db.Query(
		`SELECT id, subject, exam_name, exam_date, req_topics, notes, created_at
		 FROM plans ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.StudyPlan
	for rows.Next() {
		var plan model.StudyPlan
		var reqTopics string
		if err := rows.Scan(&plan.ID, &plan.Request.Subject, &plan.Request.ExamName,
			&plan.Request.ExamDate, &reqTopics, &plan.Request.Notes, &plan.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(reqTopics), &plan.Request.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal request topics: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		topics, err := s.planTopics(plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].Topics = topics
	}
	return plans, nil
}

// PlanCount returns the number of stored plans.
func (s *Store) PlanCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&count)
	return count, err
}
