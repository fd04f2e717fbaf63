package episode_test

import (
	"context"
	"testing"

	"itsictl/core/itsi"
	"itsictl/core/itsi/itsitest"
	"itsictl/feature/episode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, srv *itsitest.Server) *episode.Service {
	t.Helper()
	client, err := itsi.NewClient(srv.ClientConfig(), zap.NewNop(), itsi.WithTransport(srv.Transport()))
	require.NoError(t, err)
	return episode.NewService(client, zap.NewNop())
}

func boolPtr(b bool) *bool { return &b }

func TestAddComment(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	res, err := svc.AddComment(context.Background(), episode.CommentParams{
		EpisodeKey: "ff942149-4e70-42ff-94d3-6fdf5c5f95f3",
		Comment:    "Investigating root cause",
	})
	require.NoError(t, err)

	assert.True(t, res.Changed, "comment creation is always a change")
	assert.Empty(t, res.Before)
	assert.Equal(t, map[string]any{
		"comment":  "Investigating root cause",
		"event_id": "ff942149-4e70-42ff-94d3-6fdf5c5f95f3",
		"is_group": true,
	}, res.After)
	assert.Equal(t, res.After, res.Diff)
	assert.NotEmpty(t, res.Response["_key"])
	assert.Equal(t, "ff942149-4e70-42ff-94d3-6fdf5c5f95f3", res.EpisodeKey)

	comments := srv.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "ff942149-4e70-42ff-94d3-6fdf5c5f95f3", comments[0]["event_id"])
}

func TestAddComment_DryRun(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	res, err := svc.AddComment(context.Background(), episode.CommentParams{
		EpisodeKey: "abc",
		Comment:    "dry-run comment",
		DryRun:     true,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Empty(t, res.Response)
	assert.Equal(t, map[string]any{
		"comment":  "dry-run comment",
		"event_id": "abc",
		"is_group": true,
	}, res.After)
	assert.Empty(t, srv.Comments(), "dry-run must not post the comment")
}

func TestAddComment_ExplicitIsGroup(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	res, err := svc.AddComment(context.Background(), episode.CommentParams{
		EpisodeKey: "abc",
		Comment:    "single event note",
		IsGroup:    boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, false, res.After["is_group"])
}

func TestAddComment_Validation(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	tests := []struct {
		name      string
		params    episode.CommentParams
		expectErr string
	}{
		{
			name:      "missing episode key",
			params:    episode.CommentParams{Comment: "text"},
			expectErr: "'episode_key' is required",
		},
		{
			name:      "missing comment",
			params:    episode.CommentParams{EpisodeKey: "abc"},
			expectErr: "'comment' is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddComment(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, itsi.IsValidation(err))
			assert.Contains(t, err.Error(), tt.expectErr)
			assert.Empty(t, srv.Comments(), "validation failures must not reach the API")
		})
	}
}
