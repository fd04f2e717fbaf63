package cmd

import (
	"itsictl/feature/episode"

	"github.com/spf13/cobra"
)

var (
	// Flags for episode comment
	epKey     string
	epComment string
	epIsGroup bool
	epDryRun  bool
)

// episodeCmd is the parent command for episode operations.
var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Operate on ITSI episodes (notable event groups)",
}

// episodeCommentCmd appends a comment to an episode.
var episodeCommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Add a comment to an episode",
	Long: `Append a comment to an existing ITSI episode. Every invocation creates a
new comment; comments cannot be updated or deleted through the API.

Examples:
  itsictl episode comment --episode-key ff942149-4e70-42ff-94d3-6fdf5c5f95f3 \
    --comment "Investigating root cause"

  # Preview without posting
  itsictl episode comment --episode-key $KEY --comment "note" --dry-run`,
	RunE: runEpisodeComment,
}

func init() {
	episodeCmd.AddCommand(episodeCommentCmd)

	episodeCommentCmd.Flags().StringVar(&epKey, "episode-key", "", "Episode _key to comment on")
	episodeCommentCmd.Flags().StringVar(&epComment, "comment", "", "Comment text")
	episodeCommentCmd.Flags().BoolVar(&epIsGroup, "is-group", true, "Whether the comment targets an episode group")
	episodeCommentCmd.Flags().BoolVar(&epDryRun, "dry-run", false, "Report what would be posted without calling the API")

	RootCmd.AddCommand(episodeCmd)
}

func runEpisodeComment(cmd *cobra.Command, args []string) error {
	client, logg, err := setup()
	if err != nil {
		return err
	}
	defer logg.Sync()

	res, err := episode.NewService(client, logg).AddComment(cmd.Context(), episode.CommentParams{
		EpisodeKey: epKey,
		Comment:    epComment,
		IsGroup:    &epIsGroup,
		DryRun:     epDryRun,
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}
