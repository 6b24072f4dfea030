package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psqlProfile = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"p.id", "p.owner_id", "u.name", "u.avatar",
	"p.company", "p.website", "p.location", "p.bio", "p.status", "p.githubusername",
	"p.skills", "p.social", "p.experience", "p.education",
	"p.version", "p.created_at", "p.updated_at",
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func selectProfiles() sq.SelectBuilder {
	return psqlProfile.Select(profileColumns...).
		From("profiles p").
		Join("users u ON u.id = p.owner_id")
}

func scanProfile(row pgx.Row, l logger.Logger) (*profile.Profile, error) {
	p := &profile.Profile{}
	var socialBytes, experienceBytes, educationBytes []byte

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Owner.Name, &p.Owner.Avatar,
		&p.Company, &p.Website, &p.Location, &p.Bio, &p.Status, &p.GitHubUsername,
		&p.Skills, &socialBytes, &experienceBytes, &educationBytes,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Profile not found", "")
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}
	p.Owner.ID = p.OwnerID

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		l.Warn("Failed to unmarshal social", zap.String("owner_id", p.OwnerID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil || p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil || p.Education == nil {
		p.Education = []profile.Education{}
	}
	return p, nil
}

func (r *postgresProfileRepo) findByOwner(ctx context.Context, q querier, ownerID uuid.UUID, lock bool) (*profile.Profile, error) {
	builder := selectProfiles().Where(sq.Eq{"p.owner_id": ownerID})
	if lock {
		builder = builder.Suffix("FOR UPDATE OF p")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}
	return scanProfile(q.QueryRow(ctx, query, args...), r.logger)
}

func (r *postgresProfileRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	return r.findByOwner(ctx, r.db, ownerID, false)
}

func (r *postgresProfileRepo) FindAll(ctx context.Context) ([]*profile.Profile, error) {
	query, args, err := selectProfiles().OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile list query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows, r.logger)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profile rows", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) Upsert(ctx context.Context, ownerID uuid.UUID, patch profile.Patch) (*profile.Profile, bool, error) {
	p, created, err := r.upsertOnce(ctx, ownerID, patch)
	if isPgError(err, pgUniqueViolation) {
		// A concurrent request created the profile first; the retry sees
		// the row and takes the update path.
		r.logger.Info("Profile created concurrently, retrying as update", zap.String("owner_id", ownerID.String()))
		p, created, err = r.upsertOnce(ctx, ownerID, patch)
	}
	if err != nil {
		return nil, false, mapWriteError(err, ownerID)
	}
	return p, created, nil
}

func (r *postgresProfileRepo) upsertOnce(ctx context.Context, ownerID uuid.UUID, patch profile.Patch) (*profile.Profile, bool, error) {
	var created bool
	var result *profile.Profile

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		p, err := r.findByOwner(ctx, tx, ownerID, true)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			p = profile.New(ownerID, patch)
			if err := r.insert(ctx, tx, p); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			patch.Apply(p)
			if err := r.update(ctx, tx, p); err != nil {
				return err
			}
		}

		result, err = r.findByOwner(ctx, tx, ownerID, false)
		return err
	})
	return result, created, err
}

func (r *postgresProfileRepo) Mutate(ctx context.Context, ownerID uuid.UUID, fn func(*profile.Profile) error) (*profile.Profile, error) {
	var result *profile.Profile

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		p, err := r.findByOwner(ctx, tx, ownerID, true)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := r.update(ctx, tx, p); err != nil {
			return err
		}
		result, err = r.findByOwner(ctx, tx, ownerID, false)
		return err
	})
	if err != nil {
		return nil, mapWriteError(err, ownerID)
	}
	return result, nil
}

func (r *postgresProfileRepo) DeleteOwnerData(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var existed bool

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE owner_id = $1`, ownerID); err != nil {
			return apperror.NewInternal("failed to delete profile", err)
		}
		cmdTag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, ownerID)
		if err != nil {
			return apperror.NewInternal("failed to delete user", err)
		}
		existed = cmdTag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

func (r *postgresProfileRepo) insert(ctx context.Context, tx pgx.Tx, p *profile.Profile) error {
	social, experience, education, err := marshalDocument(p)
	if err != nil {
		return err
	}

	query, args, err := psqlProfile.Insert("profiles").
		Columns("id", "owner_id", "company", "website", "location", "bio", "status", "githubusername",
			"skills", "social", "experience", "education", "version", "created_at", "updated_at").
		Values(p.ID, p.OwnerID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
			p.Skills, social, experience, education, 1, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile insert", err)
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}

func (r *postgresProfileRepo) update(ctx context.Context, tx pgx.Tx, p *profile.Profile) error {
	social, experience, education, err := marshalDocument(p)
	if err != nil {
		return err
	}

	query, args, err := psqlProfile.Update("profiles").
		SetMap(map[string]any{
			"company":        p.Company,
			"website":        p.Website,
			"location":       p.Location,
			"bio":            p.Bio,
			"status":         p.Status,
			"githubusername": p.GitHubUsername,
			"skills":         p.Skills,
			"social":         social,
			"experience":     experience,
			"education":      education,
			"version":        sq.Expr("version + 1"),
			"updated_at":     sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"owner_id": p.OwnerID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile update", err)
	}

	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Profile not found", p.OwnerID.String())
	}
	return nil
}

func marshalDocument(p *profile.Profile) (social, experience, education []byte, err error) {
	if social, err = json.Marshal(p.Social); err != nil {
		return nil, nil, nil, apperror.NewInternal("failed to marshal social", err)
	}
	exp := p.Experience
	if exp == nil {
		exp = []profile.Experience{}
	}
	if experience, err = json.Marshal(exp); err != nil {
		return nil, nil, nil, apperror.NewInternal("failed to marshal experience", err)
	}
	edu := p.Education
	if edu == nil {
		edu = []profile.Education{}
	}
	if education, err = json.Marshal(edu); err != nil {
		return nil, nil, nil, apperror.NewInternal("failed to marshal education", err)
	}
	return social, experience, education, nil
}

func (r *postgresProfileRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit profile transaction: %w", err)
	}
	return nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func mapWriteError(err error, ownerID uuid.UUID) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if isPgError(err, pgForeignKeyViolation) {
		return apperror.NewNotFound("User not found", ownerID.String())
	}
	return apperror.NewInternal("failed to write profile", err)
}
