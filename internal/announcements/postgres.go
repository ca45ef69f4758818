package announcements

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"campushub/internal/domain"
)

// PostgresStore persists announcements in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const announcementColumns = `id, title, content, category, is_pinned, target_departments,
	attachments, club_id, created_by, published_at`

func (s *PostgresStore) Create(ctx context.Context, a Announcement) error {
	departments, attachments, err := marshalAnnouncementJSON(a)
	if err != nil {
		return err
	}
	var clubID any
	if a.ClubID != "" {
		clubID = a.ClubID
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO announcements (`+announcementColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, a.ID, a.Title, a.Content, a.Category, a.IsPinned, departments,
		attachments, clubID, a.CreatedBy, a.PublishedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Announcement, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
	a, err := scanAnnouncement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Announcement{}, domain.ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, clubID string) ([]Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE club_id IS NULL
		ORDER BY is_pinned DESC, published_at DESC`
	args := []any{}
	if clubID != "" {
		query = `SELECT ` + announcementColumns + ` FROM announcements WHERE club_id = $1
			ORDER BY is_pinned DESC, published_at DESC`
		args = append(args, clubID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (Announcement, error) {
	var (
		a           Announcement
		departments []byte
		attachments []byte
		clubID      sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Category, &a.IsPinned, &departments,
		&attachments, &clubID, &a.CreatedBy, &a.PublishedAt); err != nil {
		return Announcement{}, err
	}
	a.ClubID = clubID.String
	a.PublishedAt = a.PublishedAt.UTC()
	if err := json.Unmarshal(departments, &a.TargetDepartments); err != nil {
		return Announcement{}, fmt.Errorf("decode target_departments: %w", err)
	}
	if err := json.Unmarshal(attachments, &a.Attachments); err != nil {
		return Announcement{}, fmt.Errorf("decode attachments: %w", err)
	}
	return a, nil
}

func marshalAnnouncementJSON(a Announcement) (departments, attachments []byte, err error) {
	deps := a.TargetDepartments
	if deps == nil {
		deps = []string{}
	}
	atts := a.Attachments
	if atts == nil {
		atts = []Attachment{}
	}
	if departments, err = json.Marshal(deps); err != nil {
		return nil, nil, err
	}
	if attachments, err = json.Marshal(atts); err != nil {
		return nil, nil, err
	}
	return departments, attachments, nil
}
