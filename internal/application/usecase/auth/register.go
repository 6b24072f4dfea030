package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/auth"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const publishTimeout = 5 * time.Second

type RegisterUseCase struct {
	userRepo  user.Repository
	jwtSvc    *auth.JWTService
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, publisher service.EventPublisher, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:  repo,
		jwtSvc:    jwtSvc,
		publisher: publisher,
		logger:    log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*TokenOutput, error) {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "Register")
	defer span.End()

	email := user.NormalizeEmail(input.Email)

	_, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.NewConflict("User", "email", email)
	case !errors.Is(err, apperror.ErrNotFound):
		span.RecordError(err)
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       user.GravatarURL(email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	err = uc.publisher.PublishAccountEvent(pubCtx, user.AccountEvent{
		EventType: user.AccountEventCreated,
		UserID:    u.ID,
		Email:     u.Email,
		Avatar:    u.Avatar,
	})
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to publish account created event", err, zap.String("user_id", u.ID.String()))
	}

	return &TokenOutput{Token: token}, nil
}
