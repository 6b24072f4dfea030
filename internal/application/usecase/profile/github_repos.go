package profile

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const MsgNoGitHubProfile = "No github profile found"

type GitHubReposUseCase struct {
	gateway service.RepoGateway
	logger  logger.Logger
}

func NewGitHubReposUseCase(gateway service.RepoGateway, log logger.Logger) *GitHubReposUseCase {
	return &GitHubReposUseCase{gateway: gateway, logger: log}
}

type GitHubReposInput struct {
	Username string
}

type GitHubReposOutput struct {
	Repos json.RawMessage
}

// Execute never surfaces upstream details; every failure becomes the same
// "not found" answer.
func (uc *GitHubReposUseCase) Execute(ctx context.Context, input GitHubReposInput) (*GitHubReposOutput, error) {
	ctx, span := tracer.Start(ctx, "FetchGitHubRepos")
	defer span.End()
	span.SetAttributes(attribute.String("github.username", input.Username))

	if input.Username == "" {
		return nil, apperror.NewUpstreamUnavailable(MsgNoGitHubProfile, nil)
	}

	body, err := uc.gateway.FetchRepos(ctx, input.Username)
	if err != nil {
		span.RecordError(err)
		uc.logger.Warn("GitHub repos lookup failed", zap.String("username", input.Username), zap.Error(err))
		return nil, apperror.NewUpstreamUnavailable(MsgNoGitHubProfile, err)
	}
	return &GitHubReposOutput{Repos: body}, nil
}
