package profile

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/internal/domain/user"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, ownerID)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) FindAll(ctx context.Context) ([]*profile.Profile, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]*profile.Profile)
	return ps, args.Error(1)
}

func (m *mockProfileRepo) Upsert(ctx context.Context, ownerID uuid.UUID, patch profile.Patch) (*profile.Profile, bool, error) {
	args := m.Called(ctx, ownerID, patch)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Bool(1), args.Error(2)
}

// Mutate applies fn to the profile handed to Return, like the real store.
func (m *mockProfileRepo) Mutate(ctx context.Context, ownerID uuid.UUID, fn func(*profile.Profile) error) (*profile.Profile, error) {
	args := m.Called(ctx, ownerID, fn)
	p, _ := args.Get(0).(*profile.Profile)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *mockProfileRepo) DeleteOwnerData(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishAccountEvent(ctx context.Context, payload user.AccountEvent) error {
	return m.Called(ctx, payload).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchRepos(ctx context.Context, username string) (json.RawMessage, error) {
	args := m.Called(ctx, username)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}
