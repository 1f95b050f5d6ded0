package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/prepdeck/backend/internal/domain/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    state TEXT NOT NULL,
    current INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    started_at TEXT,
    ended_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, created_at);

CREATE TABLE IF NOT EXISTS attempts (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT,
    feedback TEXT,
    answered_at TEXT,
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pregenerated (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    role TEXT NOT NULL,
    category TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    question TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pregen_tuple ON pregenerated(role, category, difficulty);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ── Wire shapes ─────────────────────────────────────────────────────────────

type questionRow struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	Topics         []string `json:"topics,omitempty"`
	ExpectedPoints []string `json:"expected_points,omitempty"`
	FollowUps      []string `json:"follow_ups,omitempty"`
}

type feedbackRow struct {
	Score        float64  `json:"score"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
	Detail       string   `json:"detail,omitempty"`
	ModelAnswer  string   `json:"model_answer,omitempty"`
	Resources    []string `json:"resources,omitempty"`
}

func encodeQuestion(q interview.Question) (string, error) {
	b, err := json.Marshal(questionRow{
		ID:             q.ID,
		Text:           q.Text,
		Category:       string(q.Category),
		Difficulty:     string(q.Difficulty),
		Topics:         q.Topics,
		ExpectedPoints: q.ExpectedPoints,
		FollowUps:      q.FollowUps,
	})
	return string(b), err
}

func decodeQuestion(data string) (interview.Question, error) {
	var row questionRow
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return interview.Question{}, err
	}
	return interview.Question{
		ID:             row.ID,
		Text:           row.Text,
		Category:       interview.Category(row.Category),
		Difficulty:     interview.Difficulty(row.Difficulty),
		Topics:         row.Topics,
		ExpectedPoints: row.ExpectedPoints,
		FollowUps:      row.FollowUps,
	}, nil
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ── Sessions ────────────────────────────────────────────────────────────────

// SaveSession writes the whole session as one checkpoint. Attempts are
// replaced wholesale; the write is atomic within a transaction.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *interview.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, role, difficulty, state, current, created_at, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			current = excluded.current,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at`,
		session.ID, session.UserID, session.Role, string(session.Difficulty),
		string(session.State), session.Current,
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		encodeTime(session.StartedAt), encodeTime(session.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM attempts WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}

	for i, a := range session.Attempts {
		qJSON, err := encodeQuestion(a.Question)
		if err != nil {
			return fmt.Errorf("encode question: %w", err)
		}

		var answer, feedback any
		if a.Answer != "" {
			answer = a.Answer
		}
		if a.Feedback != nil {
			b, err := json.Marshal(feedbackRow{
				Score:        a.Feedback.Score,
				Strengths:    a.Feedback.Strengths,
				Improvements: a.Feedback.Improvements,
				Detail:       a.Feedback.Detail,
				ModelAnswer:  a.Feedback.ModelAnswer,
				Resources:    a.Feedback.Resources,
			})
			if err != nil {
				return fmt.Errorf("encode feedback: %w", err)
			}
			feedback = string(b)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO attempts (session_id, position, question, answer, feedback, answered_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			session.ID, i, qJSON, answer, feedback, encodeTime(a.AnsweredAt),
		)
		if err != nil {
			return fmt.Errorf("save attempt %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadSession(ctx context.Context, id string) (*interview.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, role, difficulty, state, current, created_at, started_at, ended_at
		FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadAttempts(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) ListUserSessions(ctx context.Context, userID string) ([]*interview.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, role, difficulty, state, current, created_at, started_at, ended_at
		FROM sessions WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*interview.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, session := range sessions {
		if err := s.loadAttempts(ctx, session); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (*interview.Session, error) {
	var session interview.Session
	var difficulty, state, createdAt string
	var startedAt, endedAt sql.NullString

	err := r.Scan(&session.ID, &session.UserID, &session.Role, &difficulty,
		&state, &session.Current, &createdAt, &startedAt, &endedAt)
	if err != nil {
		return nil, err
	}

	session.Difficulty = interview.Difficulty(difficulty)
	session.State = interview.State(state)

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	session.CreatedAt = created

	if session.StartedAt, err = decodeTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if session.EndedAt, err = decodeTime(endedAt); err != nil {
		return nil, fmt.Errorf("parse ended_at: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) loadAttempts(ctx context.Context, session *interview.Session) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, feedback, answered_at
		FROM attempts WHERE session_id = ? ORDER BY position ASC`, session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var qJSON string
		var answer, fbJSON, answeredAt sql.NullString
		if err := rows.Scan(&qJSON, &answer, &fbJSON, &answeredAt); err != nil {
			return err
		}

		q, err := decodeQuestion(qJSON)
		if err != nil {
			return fmt.Errorf("decode question: %w", err)
		}

		attempt := interview.QuestionAttempt{Question: q}
		if answer.Valid {
			attempt.Answer = answer.String
		}
		if fbJSON.Valid {
			var row feedbackRow
			if err := json.Unmarshal([]byte(fbJSON.String), &row); err != nil {
				return fmt.Errorf("decode feedback: %w", err)
			}
			attempt.Feedback = &interview.FeedbackResult{
				Score:        row.Score,
				Strengths:    row.Strengths,
				Improvements: row.Improvements,
				Detail:       row.Detail,
				ModelAnswer:  row.ModelAnswer,
				Resources:    row.Resources,
			}
		}
		if attempt.AnsweredAt, err = decodeTime(answeredAt); err != nil {
			return fmt.Errorf("parse answered_at: %w", err)
		}

		session.Attempts = append(session.Attempts, attempt)
	}
	return rows.Err()
}

// ── Pregenerated questions ──────────────────────────────────────────────────

func (s *SQLiteStore) SavePregenerated(ctx context.Context, role string, category interview.Category, difficulty interview.Difficulty, qs []interview.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, q := range qs {
		qJSON, err := encodeQuestion(q)
		if err != nil {
			return fmt.Errorf("encode question: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pregenerated (role, category, difficulty, question, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			role, string(category), string(difficulty), qJSON, now,
		)
		if err != nil {
			return fmt.Errorf("save pregenerated: %w", err)
		}
	}
	return tx.Commit()
}

// TakePregenerated claims up to count matching questions. Claimed rows
// are deleted in the same transaction so concurrent takers never share.
func (s *SQLiteStore) TakePregenerated(ctx context.Context, role string, category interview.Category, difficulty interview.Difficulty, count int) ([]interview.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, question FROM pregenerated
		WHERE role = ? AND category = ? AND difficulty = ?
		ORDER BY id ASC LIMIT ?`,
		role, string(category), string(difficulty), count,
	)
	if err != nil {
		return nil, err
	}

	var ids []int64
	var questions []interview.Question
	for rows.Next() {
		var id int64
		var qJSON string
		if err := rows.Scan(&id, &qJSON); err != nil {
			rows.Close()
			return nil, err
		}
		q, err := decodeQuestion(qJSON)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("decode question: %w", err)
		}
		ids = append(ids, id)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM pregenerated WHERE id = ?", id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return questions, nil
}
