package main

import (
	"os"

	"github.com/groblegark/kjql/internal/client"
	"github.com/spf13/cobra"
)

var (
	httpURL      string
	token        string
	searchUser   string
	jsonOutput   bool
	searchClient client.SearchClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("KJQL_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultUser() string {
	if s := os.Getenv("KJQL_USER"); s != "" {
		return s
	}
	if s := os.Getenv("USER"); s != "" {
		return s
	}
	return "anonymous"
}

var rootCmd = &cobra.Command{
	Use:   "kjql <command>",
	Short: "CLI client for the kjql search service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		searchClient = client.NewHTTPClient(httpURL, token)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if searchClient != nil {
			searchClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("KJQL_TOKEN"), "bearer token for authenticated servers")
	rootCmd.PersistentFlags().StringVar(&searchUser, "user", defaultUser(), "user the search runs as")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "search", Title: "Search:"},
		&cobra.Group{ID: "issues", Title: "Issues:"},
		&cobra.Group{ID: "catalog", Title: "Catalog:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Search
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fitCmd)

	// Issues
	rootCmd.AddCommand(issueCmd)

	// Catalog
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(timetrackingCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
