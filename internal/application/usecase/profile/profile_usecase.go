package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const (
	MsgNoProfileForMe   = "There is no profile for this user"
	MsgNoProfileForUser = "There is no profile for user"
)

// PublishTimeout bounds how long a write waits on the event broker after
// its data is committed.
const PublishTimeout = 5 * time.Second

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	publisher   service.EventPublisher
	logger      logger.Logger
}

func NewProfileUseCase(repo profile.Repository, publisher service.EventPublisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		publisher:   publisher,
		logger:      log,
	}
}

type GetProfileInput struct {
	OwnerID uuid.UUID
}

type ProfileOutput struct {
	Profile *profile.Profile
}

// ExecuteGetMine loads the caller's own profile.
func (uc *ProfileUseCase) ExecuteGetMine(ctx context.Context, input GetProfileInput) (*ProfileOutput, error) {
	return uc.get(ctx, input.OwnerID, MsgNoProfileForMe)
}

func (uc *ProfileUseCase) ExecuteGetByOwner(ctx context.Context, input GetProfileInput) (*ProfileOutput, error) {
	return uc.get(ctx, input.OwnerID, MsgNoProfileForUser)
}

func (uc *ProfileUseCase) get(ctx context.Context, ownerID uuid.UUID, notFoundMsg string) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", ownerID.String()))

	p, err := uc.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound(notFoundMsg, ownerID.String())
		}
		return nil, err
	}
	return &ProfileOutput{Profile: p}, nil
}

type ListProfilesOutput struct {
	Profiles []*profile.Profile
}

func (uc *ProfileUseCase) ExecuteList(ctx context.Context) (*ListProfilesOutput, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &ListProfilesOutput{Profiles: profiles}, nil
}

type UpsertProfileInput struct {
	OwnerID uuid.UUID
	Patch   profile.Patch
	// Skills is the raw comma separated list; nil leaves skills untouched.
	Skills *string
}

type UpsertProfileOutput struct {
	Profile *profile.Profile
	Created bool
}

func (uc *ProfileUseCase) ExecuteUpsert(ctx context.Context, input UpsertProfileInput) (*UpsertProfileOutput, error) {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "UpsertProfile")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", input.OwnerID.String()))

	patch := input.Patch
	if input.Skills != nil {
		patch.Skills = profile.ParseSkills(*input.Skills)
	}

	p, created, err := uc.profileRepo.Upsert(ctx, input.OwnerID, patch)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("created", created))
	return &UpsertProfileOutput{Profile: p, Created: created}, nil
}

type DeleteAccountInput struct {
	OwnerID uuid.UUID
}

// ExecuteDeleteAccount removes the caller's profile and account, then
// announces the deletion so other owners of account data can purge it.
func (uc *ProfileUseCase) ExecuteDeleteAccount(ctx context.Context, input DeleteAccountInput) error {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "DeleteAccount")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", input.OwnerID.String()))

	existed, err := uc.profileRepo.DeleteOwnerData(ctx, input.OwnerID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !existed {
		uc.logger.Warn("Delete requested for unknown account", zap.String("owner_id", input.OwnerID.String()))
		return nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()
	err = uc.publisher.PublishAccountEvent(pubCtx, user.AccountEvent{
		EventType: user.AccountEventDeleted,
		UserID:    input.OwnerID,
	})
	if err != nil {
		// The account is already gone; a lost event only leaves the stored
		// avatar behind.
		span.RecordError(err)
		uc.logger.Error("Failed to publish account deleted event", err, zap.String("owner_id", input.OwnerID.String()))
	}

	return nil
}
