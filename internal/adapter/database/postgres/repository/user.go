package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "authapi/internal/adapter/database/postgres"
	"authapi/internal/core/domain"
	"authapi/internal/core/port"
	tel "authapi/internal/core/telemetry"
)

const uniqueViolation = "23505"

var userColumns = []string{"id", "uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at"}

type UserRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{db: db, telemetry: telemetry}
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "get_by_id", "user", nil)
	defer span.End()

	return ur.getOne(ctx, sq.Eq{"id": id})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "get_by_email", "user", nil)
	defer span.End()

	return ur.getOne(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "create", "user", nil)
	defer span.End()

	if user.Role == "" {
		user.Role = domain.Profile
	}

	stmt, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at").
		Values(user.UUID, user.Name, user.Email, user.EncryptedPassword, string(user.Role), user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	err = ur.db.QueryRow(ctx, stmt, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		err = mapError(err)

		if !errors.Is(err, domain.ErrConflict) {
			span.RecordError(err)
			span.SetStatus("error", "storage failure")
		}

		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) getOne(ctx context.Context, where sq.Eq) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var (
		data domain.User
		role string
	)

	err = ur.db.QueryRow(ctx, query, args...).Scan(
		&data.ID,
		&data.UUID,
		&data.Name,
		&data.Email,
		&data.EncryptedPassword,
		&role,
		&data.CreatedAt,
		&data.UpdatedAt,
	)

	if err != nil {
		return domain.User{}, mapError(err)
	}

	data.Role = domain.UserRole(role)

	return data, nil
}

// mapError translates driver errors into domain kinds.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}

	return fmt.Errorf("postgres: %w", err)
}
