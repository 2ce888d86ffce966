package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/groblegark/kjql/internal/client"
	"github.com/groblegark/kjql/internal/model"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <clause-json>",
	Short:   "Evaluate a query clause and list matching issues",
	GroupID: "search",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderBy, _ := cmd.Flags().GetStringArray("order-by")

		req := &client.SearchRequest{User: searchUser}
		if len(args) > 0 {
			req.Clause = json.RawMessage(args[0])
		}
		terms, err := parseOrderBy(orderBy)
		if err != nil {
			return err
		}
		req.OrderBy = terms

		resp, err := searchClient.Search(context.Background(), req)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		if jsonOutput {
			printIssueListJSON(resp.Issues)
		} else {
			printIssueListTable(resp.Issues, resp.Total)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:     "validate <clause-json>",
	Short:   "Check a query clause without evaluating it",
	GroupID: "search",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := searchClient.Validate(context.Background(), &client.SearchRequest{
			User:   searchUser,
			Clause: json.RawMessage(args[0]),
		})
		if err != nil {
			return fmt.Errorf("validating: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
			if !resp.Valid {
				return fmt.Errorf("invalid query")
			}
			return nil
		}
		if resp.Valid {
			fmt.Println("Valid.")
			return nil
		}
		fmt.Println(resp.Error)
		return fmt.Errorf("invalid query")
	},
}

var fitCmd = &cobra.Command{
	Use:     "fit <clause-json>",
	Short:   "Reduce a query clause to basic search form parameters",
	GroupID: "search",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := searchClient.Fit(context.Background(), &client.SearchRequest{
			User:   searchUser,
			Clause: json.RawMessage(args[0]),
		})
		if err != nil {
			return fmt.Errorf("fitting: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printFitResult(resp)
		}
		return nil
	},
}

// parseOrderBy parses repeated "field", "field:asc", or "field:desc"
// flag values into sort terms.
func parseOrderBy(specs []string) ([]model.SortField, error) {
	var terms []model.SortField
	for _, spec := range specs {
		field, dir, found := strings.Cut(spec, ":")
		if field == "" {
			return nil, fmt.Errorf("empty order-by field in %q", spec)
		}
		term := model.SortField{Field: field}
		if found {
			switch strings.ToLower(dir) {
			case "asc":
				term.Direction = model.DirectionAsc
			case "desc":
				term.Direction = model.DirectionDesc
			default:
				return nil, fmt.Errorf("order-by direction %q must be asc or desc", dir)
			}
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func init() {
	searchCmd.Flags().StringArray("order-by", nil, "sort term, field or field:asc/field:desc (repeatable)")
}
