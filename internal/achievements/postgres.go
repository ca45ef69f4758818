package achievements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushub/internal/domain"
)

// PostgresStore persists achievements in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const achievementColumns = `id, title, description, category, badge, student_id,
	event_id, external_event_name, created_by, created_at`

func (s *PostgresStore) Create(ctx context.Context, a Achievement) error {
	var eventID any
	if a.EventID != "" {
		eventID = a.EventID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO achievements (`+achievementColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, a.ID, a.Title, a.Description, a.Category, string(a.Badge), a.StudentID,
		eventID, a.ExternalEventName, a.CreatedBy, a.CreatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Achievement, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = $1`, id)
	a, err := scanAchievement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Achievement{}, domain.ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements`
	var conds []string
	var args []any
	if f.StudentID != "" {
		args = append(args, f.StudentID)
		conds = append(conds, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if f.EventID != "" {
		args = append(args, f.EventID)
		conds = append(conds, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if f.Badge != "" {
		args = append(args, string(f.Badge))
		conds = append(conds, fmt.Sprintf("badge = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (s *PostgresStore) CountForEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM achievements WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAchievement(row rowScanner) (Achievement, error) {
	var (
		a       Achievement
		badge   string
		eventID sql.NullString
	)
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &badge, &a.StudentID,
		&eventID, &a.ExternalEventName, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return Achievement{}, err
	}
	a.Badge = Badge(badge)
	a.EventID = eventID.String
	return a, nil
}
