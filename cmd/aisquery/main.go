// Package main implements the aisquery CLI: the HTTP search server and an
// interactive shell over the same engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hibik17/ais-search/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "aisquery",
	Short: "Similarity search over a trained document embedding model",
	Long: `aisquery serves nearest-neighbor queries over precomputed document and
word embeddings of a paper corpus. Run "serve" for the HTTP API or "shell"
for an interactive console.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
