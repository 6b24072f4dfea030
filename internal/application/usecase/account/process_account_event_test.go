package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	return m.Called(ctx, id, avatar).Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, source any, folder string, publicID string) (string, error) {
	args := m.Called(ctx, source, folder, publicID)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

func TestProcessAccountEvent_CreatedMirrorsAvatar(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	id := uuid.New()
	gravatar := user.GravatarURL("a@b.c")

	up.On("Upload", mock.Anything, gravatar, "avatars", id.String()).Return("https://cdn/avatars/x.png", nil)
	repo.On("UpdateAvatar", mock.Anything, id, "https://cdn/avatars/x.png").Return(nil)

	uc := NewProcessAccountEventUseCase(repo, up, "avatars", logger.NewNopLogger())
	err := uc.Execute(context.Background(), user.AccountEvent{EventType: user.AccountEventCreated, UserID: id, Avatar: gravatar})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	up.AssertExpectations(t)
}

func TestProcessAccountEvent_CreatedForVanishedAccount(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	id := uuid.New()

	up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/x.png", nil)
	repo.On("UpdateAvatar", mock.Anything, id, mock.Anything).Return(apperror.NewNotFound("User not found", id.String()))

	uc := NewProcessAccountEventUseCase(repo, up, "avatars", logger.NewNopLogger())
	err := uc.Execute(context.Background(), user.AccountEvent{EventType: user.AccountEventCreated, UserID: id, Avatar: "https://x"})
	assert.NoError(t, err)
}

func TestProcessAccountEvent_UploadFailureIsRetryable(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503"))

	uc := NewProcessAccountEventUseCase(repo, up, "avatars", logger.NewNopLogger())
	err := uc.Execute(context.Background(), user.AccountEvent{EventType: user.AccountEventCreated, UserID: uuid.New(), Avatar: "https://x"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessAccountEvent_DeletedDropsAvatar(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	id := uuid.New()
	up.On("Delete", mock.Anything, "avatars/"+id.String()).Return(nil)

	uc := NewProcessAccountEventUseCase(repo, up, "avatars", logger.NewNopLogger())
	err := uc.Execute(context.Background(), user.AccountEvent{EventType: user.AccountEventDeleted, UserID: id})

	assert.NoError(t, err)
	up.AssertExpectations(t)
}

func TestProcessAccountEvent_UnknownTypeSkipped(t *testing.T) {
	uc := NewProcessAccountEventUseCase(new(mockUserRepo), new(mockUploader), "avatars", logger.NewNopLogger())
	assert.NoError(t, uc.Execute(context.Background(), user.AccountEvent{EventType: "account.renamed", UserID: uuid.New()}))
}

func newRetryingUseCase(repo *mockUserRepo, up *mockUploader, attempts int) *ProcessAccountEventUseCase {
	uc := NewProcessAccountEventUseCase(repo, up, "avatars", logger.NewNopLogger())
	uc.maxAttempts = attempts
	uc.backoff = func(int) time.Duration { return time.Millisecond }
	return uc
}

func TestProcessAccountEvent_RetryRecoversFromTransientFailure(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	id := uuid.New()

	up.On("Delete", mock.Anything, "avatars/"+id.String()).Return(errors.New("cloudinary 503")).Twice()
	up.On("Delete", mock.Anything, "avatars/"+id.String()).Return(nil).Once()

	uc := newRetryingUseCase(repo, up, 5)
	err := uc.ExecuteWithRetry(context.Background(), user.AccountEvent{EventType: user.AccountEventDeleted, UserID: id})

	assert.NoError(t, err)
	up.AssertNumberOfCalls(t, "Delete", 3)
}

func TestProcessAccountEvent_RetryGivesUp(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	id := uuid.New()
	boom := errors.New("cloudinary down")

	up.On("Delete", mock.Anything, mock.Anything).Return(boom)

	uc := newRetryingUseCase(repo, up, 3)
	err := uc.ExecuteWithRetry(context.Background(), user.AccountEvent{EventType: user.AccountEventDeleted, UserID: id})

	assert.ErrorIs(t, err, boom)
	up.AssertNumberOfCalls(t, "Delete", 3)
}

func TestProcessAccountEvent_RetryStopsOnCancel(t *testing.T) {
	repo, up := new(mockUserRepo), new(mockUploader)
	up.On("Delete", mock.Anything, mock.Anything).Return(errors.New("cloudinary down"))

	uc := newRetryingUseCase(repo, up, 5)
	uc.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := uc.ExecuteWithRetry(ctx, user.AccountEvent{EventType: user.AccountEventDeleted, UserID: uuid.New()})
	assert.ErrorIs(t, err, context.Canceled)
	up.AssertNumberOfCalls(t, "Delete", 1)
}
