package clubs

import (
	"context"
	"database/sql"
	"errors"

	"campushub/internal/domain"
	"campushub/internal/identity"
)

// PostgresStore persists clubs and memberships in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateClub(ctx context.Context, c Club) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clubs (id, name, description, category, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.Name, c.Description, c.Category, c.CreatedBy, c.CreatedAt)
	return err
}

func (s *PostgresStore) GetClub(ctx context.Context, id string) (Club, error) {
	var c Club
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category, created_by, created_at
		FROM clubs WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Club{}, domain.ErrNotFound
	}
	return c, err
}

func (s *PostgresStore) ListClubs(ctx context.Context) ([]Club, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category, created_by, created_at
		FROM clubs ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Club
	for rows.Next() {
		var c Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (s *PostgresStore) MemberCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT club_id, COUNT(*) FROM club_memberships GROUP BY club_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *PostgresStore) AddMember(ctx context.Context, m Membership) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO club_memberships (club_id, user_id, role, joined_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (club_id, user_id) DO NOTHING
	`, m.ClubID, m.UserID, string(m.Role), m.JoinedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (s *PostgresStore) RemoveMember(ctx context.Context, clubID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM club_memberships WHERE club_id = $1 AND user_id = $2
	`, clubID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateMemberRole(ctx context.Context, clubID, userID string, role identity.ClubRole) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE club_memberships SET role = $3 WHERE club_id = $1 AND user_id = $2
	`, clubID, userID, string(role))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListMembers(ctx context.Context, clubID string) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT club_id, user_id, role, joined_at
		FROM club_memberships WHERE club_id = $1 ORDER BY joined_at
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func (s *PostgresStore) MembershipsForUser(ctx context.Context, userID string) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT club_id, user_id, role, joined_at
		FROM club_memberships WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func scanMemberships(rows *sql.Rows) ([]Membership, error) {
	var res []Membership
	for rows.Next() {
		var m Membership
		var role string
		if err := rows.Scan(&m.ClubID, &m.UserID, &role, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.Role = identity.ClubRole(role)
		res = append(res, m)
	}
	return res, rows.Err()
}
