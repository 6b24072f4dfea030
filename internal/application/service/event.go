package service

import (
	"context"

	"github.com/khoahotran/dev-connector/internal/domain/user"
)

type EventPublisher interface {
	PublishAccountEvent(ctx context.Context, payload user.AccountEvent) error
}
