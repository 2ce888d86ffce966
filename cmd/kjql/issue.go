package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/groblegark/kjql/internal/model"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:     "issue <command>",
	Short:   "Manage the searchable issue set",
	GroupID: "issues",
}

var issuePutCmd = &cobra.Command{
	Use:   "put <issue-json>",
	Short: "Create or replace an issue",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		if len(args) > 0 {
			data = []byte(args[0])
		} else {
			var err error
			data, err = readStdin()
			if err != nil {
				return err
			}
		}

		var issue model.Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			return fmt.Errorf("parsing issue: %w", err)
		}

		stored, err := searchClient.PutIssue(context.Background(), &issue)
		if err != nil {
			return fmt.Errorf("storing issue: %w", err)
		}

		if jsonOutput {
			printJSON(stored)
		} else {
			fmt.Printf("Stored %s (id %d)\n", stored.Key, stored.ID)
		}
		return nil
	},
}

var issueGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one issue by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issue, err := searchClient.GetIssue(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("getting issue: %w", err)
		}

		if jsonOutput {
			printJSON(issue)
		} else {
			printIssueTable(issue)
		}
		return nil
	},
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := searchClient.ListIssues(context.Background())
		if err != nil {
			return fmt.Errorf("listing issues: %w", err)
		}

		if jsonOutput {
			printIssueListJSON(resp.Issues)
		} else {
			printIssueListTable(resp.Issues, resp.Total)
		}
		return nil
	},
}

var issueDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete an issue by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := searchClient.DeleteIssue(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting issue: %w", err)
		}
		if !jsonOutput {
			fmt.Printf("Deleted %s\n", args[0])
		}
		return nil
	},
}

func readStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

func init() {
	issueCmd.AddCommand(issuePutCmd)
	issueCmd.AddCommand(issueGetCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueDeleteCmd)
}
