package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"campushub/internal/domain"
)

// PostgresStore persists events in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const eventColumns = `id, title, description, start_at, venue, registration_deadline,
	event_type, participation_type, min_team_size, max_team_size, poster_url, is_open,
	target_departments, target_years, coordinator_name, coordinator_phone, coordinator_email,
	attachments, created_by, club_id, registration_count, created_at`

func (s *PostgresStore) Create(ctx context.Context, e Event) error {
	departments, years, attachments, err := marshalEventJSON(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`, e.ID, e.Title, e.Description, e.StartAt, e.Venue, e.RegistrationDeadline,
		e.EventType, string(e.Participation), e.MinTeamSize, e.MaxTeamSize, e.PosterURL, e.IsOpen,
		departments, years, e.Coordinator.Name, e.Coordinator.Phone, e.Coordinator.Email,
		attachments, e.CreatedBy, nullable(e.ClubID), e.RegistrationCount, e.CreatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, domain.ErrNotFound
	}
	return e, err
}

func (s *PostgresStore) Update(ctx context.Context, e Event) error {
	departments, years, attachments, err := marshalEventJSON(e)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET
			title = $2, description = $3, start_at = $4, venue = $5, registration_deadline = $6,
			event_type = $7, participation_type = $8, min_team_size = $9, max_team_size = $10,
			poster_url = $11, is_open = $12, target_departments = $13, target_years = $14,
			coordinator_name = $15, coordinator_phone = $16, coordinator_email = $17, attachments = $18
		WHERE id = $1
	`, e.ID, e.Title, e.Description, e.StartAt, e.Venue, e.RegistrationDeadline,
		e.EventType, string(e.Participation), e.MinTeamSize, e.MaxTeamSize,
		e.PosterURL, e.IsOpen, departments, years,
		e.Coordinator.Name, e.Coordinator.Phone, e.Coordinator.Email, attachments)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the event. Registrations cascade via the schema's
// foreign keys.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, clubID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE club_id IS NULL ORDER BY start_at`
	args := []any{}
	if clubID != "" {
		query = `SELECT ` + eventColumns + ` FROM events WHERE club_id = $1 ORDER BY start_at`
		args = append(args, clubID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var (
		e             Event
		deadline      sql.NullTime
		participation string
		departments   []byte
		years         []byte
		attachments   []byte
		clubID        sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartAt, &e.Venue, &deadline,
		&e.EventType, &participation, &e.MinTeamSize, &e.MaxTeamSize, &e.PosterURL, &e.IsOpen,
		&departments, &years, &e.Coordinator.Name, &e.Coordinator.Phone, &e.Coordinator.Email,
		&attachments, &e.CreatedBy, &clubID, &e.RegistrationCount, &e.CreatedAt); err != nil {
		return Event{}, err
	}
	e.Participation = ParticipationType(participation)
	if deadline.Valid {
		t := deadline.Time.UTC()
		e.RegistrationDeadline = &t
	}
	e.ClubID = clubID.String
	e.StartAt = e.StartAt.UTC()
	if err := json.Unmarshal(departments, &e.TargetDepartments); err != nil {
		return Event{}, fmt.Errorf("decode target_departments: %w", err)
	}
	if err := json.Unmarshal(years, &e.TargetYears); err != nil {
		return Event{}, fmt.Errorf("decode target_years: %w", err)
	}
	if err := json.Unmarshal(attachments, &e.Attachments); err != nil {
		return Event{}, fmt.Errorf("decode attachments: %w", err)
	}
	return e, nil
}

func marshalEventJSON(e Event) (departments, years, attachments []byte, err error) {
	if departments, err = json.Marshal(emptySlice(e.TargetDepartments)); err != nil {
		return nil, nil, nil, err
	}
	if years, err = json.Marshal(emptySlice(e.TargetYears)); err != nil {
		return nil, nil, nil, err
	}
	if attachments, err = json.Marshal(emptySlice(e.Attachments)); err != nil {
		return nil, nil, nil, err
	}
	return departments, years, attachments, nil
}

func emptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
