package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

type ProfileUseCaseTestSuite struct {
	suite.Suite
	repo      *mockProfileRepo
	publisher *mockPublisher
	uc        *ProfileUseCase
	ownerID   uuid.UUID
}

func (s *ProfileUseCaseTestSuite) SetupTest() {
	s.repo = new(mockProfileRepo)
	s.publisher = new(mockPublisher)
	s.uc = NewProfileUseCase(s.repo, s.publisher, logger.NewNopLogger())
	s.ownerID = uuid.New()
}

func TestProfileUseCase(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseTestSuite))
}

func str(v string) *string { return &v }

func (s *ProfileUseCaseTestSuite) newProfile() *profile.Profile {
	return profile.New(s.ownerID, profile.Patch{Status: str("Developer")})
}

func (s *ProfileUseCaseTestSuite) Test_GetMine_NotFound() {
	s.repo.On("FindByOwner", mock.Anything, s.ownerID).
		Return(nil, apperror.NewNotFound("profile", s.ownerID.String()))

	_, err := s.uc.ExecuteGetMine(context.Background(), GetProfileInput{OwnerID: s.ownerID})

	var appErr *apperror.AppError
	s.Require().ErrorAs(err, &appErr)
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal(MsgNoProfileForMe, appErr.Message)
}

func (s *ProfileUseCaseTestSuite) Test_GetByOwner_Found() {
	p := s.newProfile()
	s.repo.On("FindByOwner", mock.Anything, s.ownerID).Return(p, nil)

	out, err := s.uc.ExecuteGetByOwner(context.Background(), GetProfileInput{OwnerID: s.ownerID})

	s.NoError(err)
	s.Same(p, out.Profile)
}

func (s *ProfileUseCaseTestSuite) Test_GetByOwner_FaultPassesThrough() {
	s.repo.On("FindByOwner", mock.Anything, s.ownerID).
		Return(nil, apperror.NewInternal("db", errors.New("down")))

	_, err := s.uc.ExecuteGetByOwner(context.Background(), GetProfileInput{OwnerID: s.ownerID})
	s.ErrorIs(err, apperror.ErrInternal)
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_ParsesSkills() {
	p := s.newProfile()
	s.repo.On("Upsert", mock.Anything, s.ownerID, mock.MatchedBy(func(patch profile.Patch) bool {
		return len(patch.Skills) == 3 && patch.Skills[0] == "Go" && patch.Skills[1] == "" && patch.Skills[2] == "SQL" &&
			*patch.Status == "Developer"
	})).Return(p, true, nil)

	out, err := s.uc.ExecuteUpsert(context.Background(), UpsertProfileInput{
		OwnerID: s.ownerID,
		Patch:   profile.Patch{Status: str("Developer")},
		Skills:  str(" Go ,, SQL"),
	})

	s.NoError(err)
	s.True(out.Created)
	s.repo.AssertExpectations(s.T())
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_AbsentSkillsStayNil() {
	s.repo.On("Upsert", mock.Anything, s.ownerID, mock.MatchedBy(func(patch profile.Patch) bool {
		return patch.Skills == nil
	})).Return(s.newProfile(), false, nil)

	out, err := s.uc.ExecuteUpsert(context.Background(), UpsertProfileInput{
		OwnerID: s.ownerID,
		Patch:   profile.Patch{Status: str("Developer")},
	})
	s.NoError(err)
	s.False(out.Created)
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_IgnoresCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.repo.On("Upsert", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), s.ownerID, mock.Anything).Return(s.newProfile(), false, nil)

	_, err := s.uc.ExecuteUpsert(ctx, UpsertProfileInput{OwnerID: s.ownerID, Patch: profile.Patch{Status: str("x")}})
	s.NoError(err)
}

func (s *ProfileUseCaseTestSuite) Test_AddExperience_PrependsWithID() {
	p := s.newProfile()
	p.AddExperience(profile.Experience{Title: "Old"})
	s.repo.On("Mutate", mock.Anything, s.ownerID, mock.Anything).Return(p, nil)

	out, err := s.uc.ExecuteAddExperience(context.Background(), AddExperienceInput{
		OwnerID:    s.ownerID,
		Experience: profile.Experience{Title: "New", Company: "Acme", From: time.Now()},
	})

	s.Require().NoError(err)
	s.Require().Len(out.Profile.Experience, 2)
	s.Equal("New", out.Profile.Experience[0].Title)
	s.NotEqual(uuid.Nil, out.Profile.Experience[0].ID)
}

func (s *ProfileUseCaseTestSuite) Test_RemoveEducation_UnknownIDIsNoop() {
	p := s.newProfile()
	edu := p.AddEducation(profile.Education{School: "Uni"})
	s.repo.On("Mutate", mock.Anything, s.ownerID, mock.Anything).Return(p, nil)

	out, err := s.uc.ExecuteRemoveEducation(context.Background(), RemoveEntryInput{OwnerID: s.ownerID, EntryID: uuid.New()})
	s.Require().NoError(err)
	s.Require().Len(out.Profile.Education, 1)
	s.Equal(edu.ID, out.Profile.Education[0].ID)
}

func (s *ProfileUseCaseTestSuite) Test_RemoveExperience_NoProfile() {
	s.repo.On("Mutate", mock.Anything, s.ownerID, mock.Anything).
		Return(nil, apperror.NewNotFound("profile", s.ownerID.String()))

	_, err := s.uc.ExecuteRemoveExperience(context.Background(), RemoveEntryInput{OwnerID: s.ownerID, EntryID: uuid.New()})

	var appErr *apperror.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(MsgNoProfileForMe, appErr.Message)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteAccount_PublishesEventBeforeReturning() {
	var published user.AccountEvent
	var pubErr error
	var hasDeadline bool
	s.repo.On("DeleteOwnerData", mock.Anything, s.ownerID).Return(true, nil)
	s.publisher.On("PublishAccountEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			pubErr = ctx.Err()
			_, hasDeadline = ctx.Deadline()
			published = args.Get(1).(user.AccountEvent)
		}).
		Return(nil)

	// A client that hung up must not cancel the announcement.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.uc.ExecuteDeleteAccount(ctx, DeleteAccountInput{OwnerID: s.ownerID})
	s.Require().NoError(err)

	s.publisher.AssertNumberOfCalls(s.T(), "PublishAccountEvent", 1)
	s.Equal(user.AccountEventDeleted, published.EventType)
	s.Equal(s.ownerID, published.UserID)
	s.NoError(pubErr)
	s.True(hasDeadline)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteAccount_PublishFailureStillSucceeds() {
	s.repo.On("DeleteOwnerData", mock.Anything, s.ownerID).Return(true, nil)
	s.publisher.On("PublishAccountEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := s.uc.ExecuteDeleteAccount(context.Background(), DeleteAccountInput{OwnerID: s.ownerID})
	s.NoError(err)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteAccount_UnknownOwnerSkipsEvent() {
	s.repo.On("DeleteOwnerData", mock.Anything, s.ownerID).Return(false, nil)

	err := s.uc.ExecuteDeleteAccount(context.Background(), DeleteAccountInput{OwnerID: s.ownerID})
	s.NoError(err)
	s.publisher.AssertNotCalled(s.T(), "PublishAccountEvent", mock.Anything, mock.Anything)
}

func TestGitHubReposUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("passes body through", func(t *testing.T) {
		gw := new(mockGateway)
		body := json.RawMessage(`[{"name":"repo"}]`)
		gw.On("FetchRepos", mock.Anything, "octocat").Return(body, nil)

		out, err := NewGitHubReposUseCase(gw, logger.NewNopLogger()).Execute(ctx, GitHubReposInput{Username: "octocat"})
		if err != nil {
			t.Fatal(err)
		}
		if string(out.Repos) != string(body) {
			t.Fatalf("body changed: %s", out.Repos)
		}
	})

	t.Run("maps failures to upstream unavailable", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("FetchRepos", mock.Anything, "ghost").Return(nil, errors.New("status 404"))

		_, err := NewGitHubReposUseCase(gw, logger.NewNopLogger()).Execute(ctx, GitHubReposInput{Username: "ghost"})

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrUpstreamUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
		if appErr.Message != MsgNoGitHubProfile {
			t.Fatalf("unexpected message: %s", appErr.Message)
		}
	})
}
