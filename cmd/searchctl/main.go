package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "searchctl",
		Short: "CLI client for the message search REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Message search service base URL")

	// search subcommand
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search the cached messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")
			return runSearch(apiFlag, query, page, pageSize, os.Stdout)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (empty matches everything)")
	searchCmd.Flags().Int("page", 1, "1-based result page")
	searchCmd.Flags().Int("page-size", 20, "Results per page")
	rootCmd.AddCommand(searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
