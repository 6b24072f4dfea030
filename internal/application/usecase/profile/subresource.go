package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/pkg/apperror"
)

type AddExperienceInput struct {
	OwnerID    uuid.UUID
	Experience profile.Experience
}

type AddEducationInput struct {
	OwnerID   uuid.UUID
	Education profile.Education
}

type RemoveEntryInput struct {
	OwnerID uuid.UUID
	EntryID uuid.UUID
}

func (uc *ProfileUseCase) ExecuteAddExperience(ctx context.Context, input AddExperienceInput) (*ProfileOutput, error) {
	return uc.mutate(ctx, "AddExperience", input.OwnerID, func(p *profile.Profile) error {
		p.AddExperience(input.Experience)
		return nil
	})
}

func (uc *ProfileUseCase) ExecuteAddEducation(ctx context.Context, input AddEducationInput) (*ProfileOutput, error) {
	return uc.mutate(ctx, "AddEducation", input.OwnerID, func(p *profile.Profile) error {
		p.AddEducation(input.Education)
		return nil
	})
}

// ExecuteRemoveExperience is lenient: an unknown entry id leaves the
// collection as is and still returns the profile.
func (uc *ProfileUseCase) ExecuteRemoveExperience(ctx context.Context, input RemoveEntryInput) (*ProfileOutput, error) {
	return uc.mutate(ctx, "RemoveExperience", input.OwnerID, func(p *profile.Profile) error {
		if !p.RemoveExperience(input.EntryID) {
			uc.logger.Info("Experience entry not found", zap.String("entry_id", input.EntryID.String()))
		}
		return nil
	})
}

func (uc *ProfileUseCase) ExecuteRemoveEducation(ctx context.Context, input RemoveEntryInput) (*ProfileOutput, error) {
	return uc.mutate(ctx, "RemoveEducation", input.OwnerID, func(p *profile.Profile) error {
		if !p.RemoveEducation(input.EntryID) {
			uc.logger.Info("Education entry not found", zap.String("entry_id", input.EntryID.String()))
		}
		return nil
	})
}

func (uc *ProfileUseCase) mutate(ctx context.Context, op string, ownerID uuid.UUID, fn func(*profile.Profile) error) (*ProfileOutput, error) {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), op)
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", ownerID.String()))

	p, err := uc.profileRepo.Mutate(ctx, ownerID, fn)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound(MsgNoProfileForMe, ownerID.String())
		}
		return nil, err
	}
	return &ProfileOutput{Profile: p}, nil
}
