package registrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushub/internal/domain"
)

// PostgresStore persists registrations. The (event_id, principal_id)
// unique constraint is the authority on duplicates; the insert races are
// settled by the database, not by application locks.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, r Registration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO registrations
			(id, event_id, principal_id, submitted_at, name, registration_number, branch, section, contact, team_name, team_size)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (event_id, principal_id) DO NOTHING
	`, r.ID, r.EventID, r.PrincipalID, r.SubmittedAt, r.Name, r.RegistrationNumber,
		r.Branch, r.Section, r.Contact, r.TeamName, r.TeamSize)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the duplicate race.
		return domain.ErrConflict
	}

	for i, m := range r.Members {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO registration_members (registration_id, position, name, registration_number, branch, section)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, r.ID, i, m.Name, m.RegistrationNumber, m.Branch, m.Section); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE events SET registration_count = registration_count + 1 WHERE id = $1
	`, r.EventID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) Get(ctx context.Context, eventID, principalID string) (Registration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, principal_id, submitted_at, name, registration_number, branch, section, contact, team_name, team_size
		FROM registrations WHERE event_id = $1 AND principal_id = $2
	`, eventID, principalID)
	r, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Registration{}, domain.ErrNotRegistered
	}
	if err != nil {
		return Registration{}, err
	}
	r.Members, err = s.members(ctx, r.ID)
	return r, err
}

func (s *PostgresStore) Delete(ctx context.Context, eventID, principalID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM registrations WHERE event_id = $1 AND principal_id = $2
	`, eventID, principalID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotRegistered
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE events SET registration_count = GREATEST(registration_count - 1, 0) WHERE id = $1
	`, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) ListForEvent(ctx context.Context, eventID string) ([]Registration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, principal_id, submitted_at, name, registration_number, branch, section, contact, team_name, team_size
		FROM registrations WHERE event_id = $1 ORDER BY seq
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range regs {
		if regs[i].Members, err = s.members(ctx, regs[i].ID); err != nil {
			return nil, err
		}
	}
	return regs, nil
}

func (s *PostgresStore) EventIDsForPrincipal(ctx context.Context, principalID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id FROM registrations WHERE principal_id = $1
	`, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func (s *PostgresStore) DeleteForEvent(ctx context.Context, eventID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) members(ctx context.Context, registrationID string) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, registration_number, branch, section
		FROM registration_members WHERE registration_id = $1 ORDER BY position
	`, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.Name, &m.RegistrationNumber, &m.Branch, &m.Section); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (Registration, error) {
	var r Registration
	if err := row.Scan(&r.ID, &r.EventID, &r.PrincipalID, &r.SubmittedAt, &r.Name,
		&r.RegistrationNumber, &r.Branch, &r.Section, &r.Contact, &r.TeamName, &r.TeamSize); err != nil {
		return Registration{}, err
	}
	r.SubmittedAt = r.SubmittedAt.UTC()
	return r, nil
}
