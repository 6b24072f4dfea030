package account

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

var tracer = otel.Tracer("account_usecase")

const defaultMaxAttempts = 5

// ProcessAccountEventUseCase keeps avatar storage in step with account
// lifecycle events: gravatars are mirrored on creation and the stored copy
// is dropped on deletion.
type ProcessAccountEventUseCase struct {
	userRepo     user.Repository
	uploader     service.Uploader
	avatarFolder string
	logger       logger.Logger
	maxAttempts  int
	backoff      func(attempt int) time.Duration
}

func NewProcessAccountEventUseCase(repo user.Repository, up service.Uploader, avatarFolder string, log logger.Logger) *ProcessAccountEventUseCase {
	return &ProcessAccountEventUseCase{
		userRepo:     repo,
		uploader:     up,
		avatarFolder: avatarFolder,
		logger:       log,
		maxAttempts:  defaultMaxAttempts,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 500 * time.Millisecond
		},
	}
}

// ExecuteWithRetry runs Execute up to maxAttempts times with a linear
// backoff between tries. It returns the last error once attempts are
// exhausted, or ctx.Err() if ctx ends while waiting.
func (uc *ProcessAccountEventUseCase) ExecuteWithRetry(ctx context.Context, payload user.AccountEvent) error {
	var err error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		if err = uc.Execute(ctx, payload); err == nil {
			return nil
		}
		if attempt == uc.maxAttempts {
			break
		}

		wait := uc.backoff(attempt)
		uc.logger.Warn("Account event failed, retrying",
			zap.String("event_type", string(payload.EventType)),
			zap.String("user_id", payload.UserID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", uc.maxAttempts, err)
}

func (uc *ProcessAccountEventUseCase) Execute(ctx context.Context, payload user.AccountEvent) error {
	ctx, span := tracer.Start(ctx, "ProcessAccountEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("event_type", string(payload.EventType)),
		attribute.String("user_id", payload.UserID.String()),
	)

	log := uc.logger.With(zap.String("event_type", string(payload.EventType)), zap.String("user_id", payload.UserID.String()))

	switch payload.EventType {
	case user.AccountEventCreated:
		return uc.mirrorAvatar(ctx, payload, log)
	case user.AccountEventDeleted:
		if err := uc.uploader.Delete(ctx, path.Join(uc.avatarFolder, payload.UserID.String())); err != nil {
			span.RecordError(err)
			return fmt.Errorf("delete avatar failed: %w", err)
		}
		log.Info("Removed stored avatar")
		return nil
	default:
		log.Warn("Unknown account event, skip")
		return nil
	}
}

func (uc *ProcessAccountEventUseCase) mirrorAvatar(ctx context.Context, payload user.AccountEvent, log logger.Logger) error {
	if payload.Avatar == "" {
		log.Info("Account has no avatar, skip")
		return nil
	}

	url, err := uc.uploader.Upload(ctx, payload.Avatar, uc.avatarFolder, payload.UserID.String())
	if err != nil {
		return fmt.Errorf("upload avatar failed: %w", err)
	}

	if err := uc.userRepo.UpdateAvatar(ctx, payload.UserID, url); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Warn("Account deleted before avatar was mirrored, skip")
			return nil
		}
		return fmt.Errorf("update avatar failed: %w", err)
	}

	log.Info("Mirrored avatar", zap.String("avatar", url))
	return nil
}
