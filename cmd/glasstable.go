package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"itsictl/feature/glasstable"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	// Flags for glasstable apply/delete
	gtID             string
	gtTitle          string
	gtDescription    string
	gtDefinition     string
	gtDefinitionFile string
	gtSharing        string
	gtDryRun         bool

	// Flags for glasstable list
	gtFilter  string
	gtFields  string
	gtCount   int
	gtOffset  int
	gtSortKey string
	gtSortDir string
	gtAsJSON  bool
)

// glassTableCmd is the parent command for all glass table operations.
var glassTableCmd = &cobra.Command{
	Use:   "glasstable",
	Short: "Manage ITSI glass table visualizations",
	Long: `Manage Splunk ITSI glass table objects via the itoa_interface endpoint.

Glass table titles are not unique; the server-assigned _key is the only
identifier. Provide --id to update or delete a specific glass table.`,
}

// glassTableApplyCmd creates or idempotently updates a glass table.
var glassTableApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or update a glass table (idempotent)",
	Long: `Create a glass table, or reconcile an existing one toward the given fields.

Without --id a new glass table is always created (--title and --definition
are required). With --id the current object is fetched, only the supplied
fields are compared, and an update is issued only when something differs.

Examples:
  # Create from a definition file
  itsictl glasstable apply --title "Service Health" --definition-file board.json

  # Rename an existing glass table
  itsictl glasstable apply --id 6992e850280636204503b3f6 --title "Renamed"

  # Preview a change without applying it
  itsictl glasstable apply --id 6992e850280636204503b3f6 --sharing app --dry-run`,
	RunE: runGlassTableApply,
}

// glassTableDeleteCmd deletes a glass table by key.
var glassTableDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a glass table by _key",
	Long: `Delete a glass table. Requires --id since titles are not unique.
Deleting a glass table that does not exist is a successful no-op.

Examples:
  itsictl glasstable delete --id 6992e850280636204503b3f6
  itsictl glasstable delete --id 6992e850280636204503b3f6 --dry-run`,
	RunE: runGlassTableDelete,
}

// glassTableListCmd lists or reads glass tables.
var glassTableListCmd = &cobra.Command{
	Use:   "list",
	Short: "List glass tables or read one by _key",
	Long: `List glass tables with optional server-side filtering, pagination, and
sorting, or fetch a single one with --id. Read-only.

Examples:
  # All glass tables as a table
  itsictl glasstable list

  # Newest five, raw JSON
  itsictl glasstable list --sort-key mod_time --sort-dir desc --count 5 --json

  # Filter by title
  itsictl glasstable list --filter '{"title": "Service Health"}'`,
	RunE: runGlassTableList,
}

func init() {
	glassTableCmd.AddCommand(glassTableApplyCmd)
	glassTableCmd.AddCommand(glassTableDeleteCmd)
	glassTableCmd.AddCommand(glassTableListCmd)

	for _, c := range []*cobra.Command{glassTableApplyCmd, glassTableDeleteCmd} {
		c.Flags().StringVar(&gtID, "id", "", "Glass table _key (omit on apply to create)")
		c.Flags().BoolVar(&gtDryRun, "dry-run", false, "Compute the diff but do not call the API")
	}

	glassTableApplyCmd.Flags().StringVar(&gtTitle, "title", "", "Glass table title (required on create)")
	glassTableApplyCmd.Flags().StringVar(&gtDescription, "description", "", "Glass table description")
	glassTableApplyCmd.Flags().StringVar(&gtDefinition, "definition", "", "Raw JSON definition object")
	glassTableApplyCmd.Flags().StringVar(&gtDefinitionFile, "definition-file", "", "Path to a JSON definition file")
	glassTableApplyCmd.Flags().StringVar(&gtSharing, "sharing", "", "Sharing level: user or app")

	glassTableListCmd.Flags().StringVar(&gtID, "id", "", "Glass table _key (fetch a single object)")
	glassTableListCmd.Flags().StringVar(&gtFilter, "filter", "", `MongoDB-style JSON filter, e.g. '{"title": "Ops"}'`)
	glassTableListCmd.Flags().StringVar(&gtFields, "fields", "", "Comma-separated field projection")
	glassTableListCmd.Flags().IntVar(&gtCount, "count", 0, "Page size")
	glassTableListCmd.Flags().IntVar(&gtOffset, "offset", 0, "Results to skip")
	glassTableListCmd.Flags().StringVar(&gtSortKey, "sort-key", "", "Field to sort by")
	glassTableListCmd.Flags().StringVar(&gtSortDir, "sort-dir", "", "Sort direction: asc or desc")
	glassTableListCmd.Flags().BoolVar(&gtAsJSON, "json", false, "Print raw JSON instead of a table")

	RootCmd.AddCommand(glassTableCmd)
}

func runGlassTableApply(cmd *cobra.Command, args []string) error {
	client, logg, err := setup()
	if err != nil {
		return err
	}
	defer logg.Sync()

	params := glasstable.Params{
		GlassTableID: gtID,
		State:        glasstable.StatePresent,
		DryRun:       gtDryRun,
	}

	// Only flags the user actually set become desired fields; everything
	// else stays out of the comparison.
	if cmd.Flags().Changed("title") {
		params.Title = &gtTitle
	}
	if cmd.Flags().Changed("description") {
		params.Description = &gtDescription
	}
	if cmd.Flags().Changed("sharing") {
		params.Sharing = &gtSharing
	}

	definition, err := loadDefinition(cmd)
	if err != nil {
		return err
	}
	params.Definition = definition

	res, err := glasstable.NewService(client, logg).Apply(cmd.Context(), params)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runGlassTableDelete(cmd *cobra.Command, args []string) error {
	client, logg, err := setup()
	if err != nil {
		return err
	}
	defer logg.Sync()

	res, err := glasstable.NewService(client, logg).Apply(cmd.Context(), glasstable.Params{
		GlassTableID: gtID,
		State:        glasstable.StateAbsent,
		DryRun:       gtDryRun,
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runGlassTableList(cmd *cobra.Command, args []string) error {
	client, logg, err := setup()
	if err != nil {
		return err
	}
	defer logg.Sync()

	tables, err := glasstable.NewService(client, logg).List(cmd.Context(), glasstable.Query{
		GlassTableID: gtID,
		Filter:       gtFilter,
		Fields:       gtFields,
		Count:        gtCount,
		Offset:       gtOffset,
		SortKey:      gtSortKey,
		SortDir:      gtSortDir,
	})
	if err != nil {
		return err
	}

	if gtAsJSON {
		return printJSON(tables)
	}
	return renderGlassTables(tables)
}

// renderGlassTables prints a summary table of glass table objects.
func renderGlassTables(tables []map[string]any) error {
	t := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"KEY", "TITLE", "DESCRIPTION", "SHARING"}))
	for _, obj := range tables {
		sharing := ""
		if acl, ok := obj["acl"].(map[string]any); ok {
			sharing = asString(acl["sharing"])
		}
		if err := t.Append([]string{
			asString(obj["_key"]),
			asString(obj["title"]),
			asString(obj["description"]),
			sharing,
		}); err != nil {
			return err
		}
	}
	return t.Render()
}

// asString renders an arbitrary JSON value as a table cell.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		encoded, _ := json.Marshal(s)
		return string(encoded)
	}
}

// loadDefinition reads the definition from --definition or --definition-file.
func loadDefinition(cmd *cobra.Command) (map[string]any, error) {
	if gtDefinition != "" && gtDefinitionFile != "" {
		return nil, fmt.Errorf("--definition and --definition-file are mutually exclusive")
	}

	var raw []byte
	switch {
	case gtDefinition != "":
		raw = []byte(gtDefinition)
	case gtDefinitionFile != "":
		data, err := os.ReadFile(gtDefinitionFile)
		if err != nil {
			return nil, fmt.Errorf("reading definition file: %w", err)
		}
		raw = data
	default:
		return nil, nil
	}

	var definition map[string]any
	if err := json.Unmarshal(raw, &definition); err != nil {
		return nil, fmt.Errorf("definition must be a JSON object: %w", err)
	}
	return definition, nil
}
