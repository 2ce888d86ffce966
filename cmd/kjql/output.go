package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printIssueListJSON(issues []*model.Issue) {
	printJSON(issues)
}

func printIssueListTable(issues []*model.Issue, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tID\tPROJECT\tTYPE\tPARENT")
	for _, iss := range issues {
		parent := "-"
		if iss.ParentID != 0 {
			parent = fmt.Sprintf("%d", iss.ParentID)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", iss.Key, iss.ID, iss.ProjectID, iss.TypeID, parent)
	}
	w.Flush()
	fmt.Printf("\n%d issues (%d total)\n", len(issues), total)
}

func printIssueTable(issue *model.Issue) {
	fmt.Printf("Key:       %s\n", issue.Key)
	fmt.Printf("ID:        %d\n", issue.ID)
	fmt.Printf("Project:   %d\n", issue.ProjectID)
	fmt.Printf("Type:      %d\n", issue.TypeID)
	if issue.ParentID != 0 {
		fmt.Printf("Parent:    %d\n", issue.ParentID)
	}
	if len(issue.Values) > 0 {
		fields := make([]string, 0, len(issue.Values))
		for id := range issue.Values {
			fields = append(fields, id)
		}
		sort.Strings(fields)
		fmt.Println("Values:")
		for _, id := range fields {
			fmt.Printf("  %-18s %s\n", id+":", renderValues(issue.Values[id]))
		}
	}
}

func renderValues(values []model.Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch v.Kind {
		case model.KindEmpty:
			parts = append(parts, "EMPTY")
		case model.KindID:
			parts = append(parts, fmt.Sprintf("#%d", v.ID))
		case model.KindString:
			parts = append(parts, v.Str)
		case model.KindTime:
			if v.DateOnly {
				parts = append(parts, v.Time.Format("2006-01-02"))
			} else {
				parts = append(parts, v.Time.Format("2006-01-02 15:04"))
			}
		case model.KindNumber:
			parts = append(parts, fmt.Sprintf("%g", v.Num))
		case model.KindDuration:
			parts = append(parts, fmt.Sprintf("%dm", v.Dur))
		}
	}
	return strings.Join(parts, ", ")
}

func printFitResult(result *model.FitResult) {
	switch result.Outcome {
	case model.FitOK:
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PARAMETER\tVALUE")
		for _, f := range result.Fields {
			fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Value)
		}
		w.Flush()
	case model.FitTooComplex:
		fmt.Println("Query is too complex for the basic search form.")
	case model.FitInvalid:
		fmt.Println("Query reduces to the basic form but carries an invalid value.")
	}
}

func printCatalogSummary(cat *registry.Catalog, revision int64) {
	fmt.Printf("Revision:     %d\n", revision)
	fmt.Printf("Projects:     %d\n", len(cat.Projects))
	fmt.Printf("Issue types:  %d\n", len(cat.IssueTypes))
	fmt.Printf("Priorities:   %d\n", len(cat.Priorities))
	fmt.Printf("Statuses:     %d\n", len(cat.Statuses))
	fmt.Printf("Versions:     %d\n", len(cat.Versions))
	fmt.Printf("Components:   %d\n", len(cat.Components))
	fmt.Printf("Users:        %d\n", len(cat.Users))
	fmt.Printf("Options:      %d\n", len(cat.Options))
	fmt.Printf("Filters:      %d\n", len(cat.Filters))
	fmt.Printf("Fields:       %d custom\n", len(cat.Fields))
	fmt.Printf("Contexts:     %d\n", len(cat.Contexts))
	fmt.Printf("Time units:   %gh/day, %gd/week\n", cat.TimeTracking.HoursPerDay, cat.TimeTracking.DaysPerWeek)
}
