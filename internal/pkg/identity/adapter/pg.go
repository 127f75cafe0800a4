package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
)

// PgDirectory resolves identities from the platform's user and classroom
// tables. Read-only by design.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ port.Directory = (*PgDirectory)(nil)

func (d *PgDirectory) Lookup(ctx context.Context, userID string) (*messaging.Identity, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var ident messaging.Identity
	var classroom *string
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, name, email, role, school_id::text, classroom_id::text
		FROM school.app_user
		WHERE id::text = $1
	`, userID).Scan(&ident.ID, &ident.Name, &ident.Email, &ident.Role, &ident.SchoolID, &classroom)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if classroom != nil {
		ident.ClassroomID = *classroom
	}
	return &ident, nil
}

func (d *PgDirectory) LookupClassroom(ctx context.Context, classroomID string) (*messaging.Classroom, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var room messaging.Classroom
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, grade
		FROM school.classroom
		WHERE id::text = $1
	`, classroomID).Scan(&room.ID, &room.Grade)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}
