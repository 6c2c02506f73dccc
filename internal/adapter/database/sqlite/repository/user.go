package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"authapi/internal/adapter/database/sqlite"
	"authapi/internal/core/domain"
	"authapi/internal/core/port"
	tel "authapi/internal/core/telemetry"
)

var userColumns = []string{"id", "uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at"}

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "get_by_id", "user", nil)
	defer span.End()

	user, err := ur.getOne(ctx, ur.db.DB, sq.Eq{"id": id})
	traceFailure(span, err)

	return user, err
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "get_by_email", "user", nil)
	defer span.End()

	user, err := ur.getOne(ctx, ur.db.DB, sq.Eq{"email": email})
	traceFailure(span, err)

	return user, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "create", "user", nil)
	defer span.End()

	uid := user.UUID.String()

	// Use transaction to ensure same connection
	tx, err := ur.db.BeginTx(ctx, nil)

	if err != nil {
		traceFailure(span, err)
		return domain.User{}, err
	}

	defer tx.Rollback()

	if user.Role == "" {
		user.Role = domain.Profile
	}

	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at").
		Values(uid, user.Name, user.Email, user.EncryptedPassword, string(user.Role), user.CreatedAt, user.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrConflict
		}

		traceFailure(span, err)
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	saved, err := ur.getOne(ctx, tx, sq.Eq{"uuid": uid})

	if err != nil {
		return domain.User{}, err
	}

	return saved, tx.Commit()
}

// traceFailure marks the span failed for storage errors. A missing row is a
// normal answer and leaves the span untouched.
func traceFailure(span port.Span, err error) {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return
	}

	span.RecordError(err)
	span.SetStatus("error", "storage failure")
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (ur *UserRepository) getOne(ctx context.Context, q queryer, where sq.Eq) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var (
		data    domain.User
		uid     string
		role    string
		created time.Time
		updated time.Time
	)

	err = q.QueryRowContext(ctx, query, args...).Scan(
		&data.ID,
		&uid,
		&data.Name,
		&data.Email,
		&data.EncryptedPassword,
		&role,
		&created,
		&updated,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}

	data.UUID, err = uuid.Parse(uid)

	if err != nil {
		return domain.User{}, fmt.Errorf("parse user uuid: %w", err)
	}

	data.Role = domain.UserRole(role)
	data.CreatedAt = created
	data.UpdatedAt = updated

	return data, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
