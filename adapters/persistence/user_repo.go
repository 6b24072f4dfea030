package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

var psqlUser = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanUser(row pgx.Row, identifier string) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("User not found", identifier)
		}
		return nil, apperror.NewInternal("failed to scan user row", err)
	}
	return u, nil
}

func (r *postgresUserRepo) findOne(ctx context.Context, where sq.Eq, identifier string) (*user.User, error) {
	query, args, err := psqlUser.
		Select("id", "name", "email", "password_hash", "avatar", "created_at", "updated_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build user query", err)
	}
	return scanUser(r.db.QueryRow(ctx, query, args...), identifier)
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	return r.findOne(ctx, sq.Eq{"email": email}, email)
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id}, id.String())
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, u.ID, u.Name, user.NormalizeEmail(u.Email), u.PasswordHash, u.Avatar, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperror.NewConflict("User", "email", u.Email)
		}
		r.logger.Error("Failed to insert user", err, zap.String("user_id", u.ID.String()))
		return apperror.NewInternal("failed to create user", err)
	}
	return nil
}

func (r *postgresUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET avatar = $2, updated_at = NOW() WHERE id = $1`, id, avatar)
	if err != nil {
		return apperror.NewInternal("failed to update avatar", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("User not found", id.String())
	}
	return nil
}
