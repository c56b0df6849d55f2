package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hibik17/ais-search/internal/config"
	logpkg "github.com/hibik17/ais-search/internal/logger"
	"github.com/hibik17/ais-search/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run an interactive search console",
	Long: `Start an in-process shell over the engine, without the HTTP server.
Type "help" at the prompt for the command list.`,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("aisquery shell, model %s (type help for commands)\n", cfg.Models.DefaultVariant)
	return shell.New(client.Service(), os.Stdin, os.Stdout).Run(cmd.Context())
}
