package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/dev-connector/internal/domain/user"
)

type CurrentAccountUseCase struct {
	userRepo user.Repository
}

func NewCurrentAccountUseCase(repo user.Repository) *CurrentAccountUseCase {
	return &CurrentAccountUseCase{userRepo: repo}
}

func (uc *CurrentAccountUseCase) Execute(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "CurrentAccount")
	defer span.End()

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return u, nil
}
