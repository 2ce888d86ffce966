package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/groblegark/kjql/internal/client"
	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog <command>",
	Short:   "Inspect and replace the search configuration",
	GroupID: "catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the live catalog and its revision",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := searchClient.GetCatalog(context.Background())
		if err != nil {
			return fmt.Errorf("getting catalog: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printCatalogSummary(&resp.Catalog, resp.Revision)
		}
		return nil
	},
}

var catalogReplaceCmd = &cobra.Command{
	Use:   "replace <catalog.json>",
	Short: "Replace the whole catalog from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading catalog file: %w", err)
		}
		var cat registry.Catalog
		if err := json.Unmarshal(data, &cat); err != nil {
			return fmt.Errorf("parsing catalog: %w", err)
		}

		revision, err := searchClient.ReplaceCatalog(context.Background(), &cat)
		if err != nil {
			return fmt.Errorf("replacing catalog: %w", err)
		}
		fmt.Printf("Catalog replaced, revision %d\n", revision)
		return nil
	},
}

var contextCmd = &cobra.Command{
	Use:     "context <command>",
	Short:   "Manage custom-field contexts",
	GroupID: "catalog",
}

var contextAddCmd = &cobra.Command{
	Use:   "add <field-id>",
	Short: "Bind a custom field to a project/issue-type scope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, _ := cmd.Flags().GetInt64Slice("project")
		types, _ := cmd.Flags().GetInt64Slice("issue-type")

		created, err := searchClient.AddContext(context.Background(), &registry.Context{
			FieldID:      args[0],
			ProjectIDs:   projects,
			IssueTypeIDs: types,
		})
		if err != nil {
			return fmt.Errorf("adding context: %w", err)
		}

		if jsonOutput {
			printJSON(created)
		} else {
			fmt.Printf("Added context %s for %s\n", created.ID, created.FieldID)
		}
		return nil
	},
}

var contextRemoveCmd = &cobra.Command{
	Use:   "remove <context-id>",
	Short: "Remove a custom-field context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := searchClient.RemoveContext(context.Background(), args[0]); err != nil {
			return fmt.Errorf("removing context: %w", err)
		}
		if !jsonOutput {
			fmt.Printf("Removed context %s\n", args[0])
		}
		return nil
	},
}

var fieldCmd = &cobra.Command{
	Use:     "field <command>",
	Short:   "Reconfigure catalog fields",
	GroupID: "catalog",
}

var fieldSetCmd = &cobra.Command{
	Use:   "set <field-id>",
	Short: "Change a field's searcher or sort capability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.FieldUpdateRequest{}
		if cmd.Flags().Changed("searchable") {
			v, _ := cmd.Flags().GetBool("searchable")
			req.Searchable = &v
		}
		if cmd.Flags().Changed("orderable") {
			v, _ := cmd.Flags().GetBool("orderable")
			req.Orderable = &v
		}
		if req.Searchable == nil && req.Orderable == nil {
			return fmt.Errorf("nothing to change, pass --searchable or --orderable")
		}

		field, err := searchClient.UpdateField(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("updating field: %w", err)
		}

		if jsonOutput {
			printJSON(field)
		} else {
			fmt.Printf("%s: searchable=%t orderable=%t\n", field.ID, field.Searchable, field.Orderable)
		}
		return nil
	},
}

var timetrackingCmd = &cobra.Command{
	Use:     "timetracking",
	Short:   "Set the duration unit configuration",
	GroupID: "catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, _ := cmd.Flags().GetFloat64("hours-per-day")
		days, _ := cmd.Flags().GetFloat64("days-per-week")

		tt := registry.TimeTracking{HoursPerDay: hours, DaysPerWeek: days}
		if err := searchClient.SetTimeTracking(context.Background(), tt); err != nil {
			return fmt.Errorf("setting time tracking: %w", err)
		}
		if !jsonOutput {
			fmt.Printf("Time tracking: %gh days, %gd weeks\n", hours, days)
		}
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:     "filter <command>",
	Short:   "Manage saved filters",
	GroupID: "catalog",
}

var filterSaveCmd = &cobra.Command{
	Use:   "save <id> <name> <clause-json>",
	Short: "Create or replace a saved filter",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("filter id must be numeric: %w", err)
		}
		// Reject malformed clauses before they reach the server.
		if _, err := model.ParseClause([]byte(args[2])); err != nil {
			return fmt.Errorf("parsing clause: %w", err)
		}
		owner, _ := cmd.Flags().GetString("owner")

		filter := &registry.SavedFilter{ID: id, Name: args[1], Owner: owner, ClauseJSON: args[2]}
		if err := searchClient.SaveFilter(context.Background(), filter); err != nil {
			return fmt.Errorf("saving filter: %w", err)
		}
		if !jsonOutput {
			fmt.Printf("Saved filter %d (%s)\n", id, args[1])
		}
		return nil
	},
}

var filterRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("filter id must be numeric: %w", err)
		}
		if err := searchClient.DeleteFilter(context.Background(), id); err != nil {
			return fmt.Errorf("deleting filter: %w", err)
		}
		if !jsonOutput {
			fmt.Printf("Deleted filter %d\n", id)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogReplaceCmd)

	contextAddCmd.Flags().Int64Slice("project", nil, "project id the context applies to (repeatable, empty = all)")
	contextAddCmd.Flags().Int64Slice("issue-type", nil, "issue type id the context applies to (repeatable, empty = all)")
	contextCmd.AddCommand(contextAddCmd)
	contextCmd.AddCommand(contextRemoveCmd)

	fieldSetCmd.Flags().Bool("searchable", false, "whether a searcher is configured for the field")
	fieldSetCmd.Flags().Bool("orderable", false, "whether the field can appear in ORDER BY")
	fieldCmd.AddCommand(fieldSetCmd)

	timetrackingCmd.Flags().Float64("hours-per-day", 8, "working hours in a day")
	timetrackingCmd.Flags().Float64("days-per-week", 5, "working days in a week")

	filterSaveCmd.Flags().String("owner", "", "filter owner")
	filterCmd.AddCommand(filterSaveCmd)
	filterCmd.AddCommand(filterRemoveCmd)
}
