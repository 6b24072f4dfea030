package service

import (
	"context"
	"encoding/json"
)

// RepoGateway lists a user's public repositories on an external code host.
// The body is returned exactly as the host sent it.
type RepoGateway interface {
	FetchRepos(ctx context.Context, username string) (json.RawMessage, error)
}
