package episode

import (
	"context"

	"itsictl/core/itsi"
	"itsictl/core/reconcile"

	"go.uber.org/zap"
)

// CommentParams are the inputs for AddComment.
type CommentParams struct {
	// EpisodeKey is the _key of the episode to comment on. The episode must
	// already exist.
	EpisodeKey string

	// Comment is the text content to append.
	Comment string

	// IsGroup marks the comment as targeting an episode group. Defaults to
	// true, which is correct for ITSI episodes.
	IsGroup *bool

	// DryRun reports what would be posted without calling the API.
	DryRun bool
}

// CommentResult is the outcome of AddComment: the standard reconcile result
// shape plus the targeted episode key.
type CommentResult struct {
	reconcile.Result
	EpisodeKey string `json:"episode_key"`
}

// Service handles episode comment operations.
type Service struct {
	client itsi.Client
	logger *zap.Logger
}

// NewService creates a new episode service.
func NewService(client itsi.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// AddComment appends a comment to an episode. Every invocation is a distinct
// remote creation, so Changed is always true; Before is always empty and
// After/Diff carry the payload that was (or would be) sent.
func (s *Service) AddComment(ctx context.Context, params CommentParams) (*CommentResult, error) {
	if params.EpisodeKey == "" {
		return nil, itsi.Validationf("'episode_key' is required")
	}
	if params.Comment == "" {
		return nil, itsi.Validationf("'comment' is required")
	}

	isGroup := true
	if params.IsGroup != nil {
		isGroup = *params.IsGroup
	}

	// The API expects the episode key under event_id.
	payload := map[string]any{
		"comment":  params.Comment,
		"event_id": params.EpisodeKey,
		"is_group": isGroup,
	}

	res := &CommentResult{
		Result: reconcile.Result{
			Before:   map[string]any{},
			After:    payload,
			Diff:     payload,
			Changed:  true,
			Response: map[string]any{},
		},
		EpisodeKey: params.EpisodeKey,
	}

	if params.DryRun {
		return res, nil
	}

	response, err := s.client.Post(ctx, itsi.CommentPath, nil, payload)
	if err != nil {
		return nil, err
	}
	res.Response = response

	s.logger.Info("episode comment added",
		zap.String("episode_key", params.EpisodeKey),
		zap.Bool("is_group", isGroup))
	return res, nil
}
