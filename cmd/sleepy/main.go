// Package main is the entry point for the sleepy CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/config"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "sleepy",
		Short:   "Guided 4-7-8 breathing timer",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			minutes, _ := cmd.Flags().GetInt("minutes")
			if err := checkMinutes(minutes); err != nil {
				return err
			}
			return executeTUI(cfgPath, minutes)
		},
	}
	root.PersistentFlags().String("config", "", "path to sleepy.toml (default: search $SLEEPY_CONFIG, ./sleepy.toml, user config dir)")
	root.Flags().Int("minutes", 0, "prefill the session length (0 = use config)")

	root.AddCommand(
		runCmd(),
		historyCmd(),
		statusCmd(),
		initCmd(),
	)

	return root
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one session without the TUI, printing phase changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			minutes, _ := cmd.Flags().GetInt("minutes")
			if err := checkMinutes(minutes); err != nil {
				return err
			}
			return executeHeadless(cfgPath, minutes, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int("minutes", 0, "session length in minutes (0 = use config)")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show minutes practised per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			since, _ := cmd.Flags().GetString("since")
			format, _ := cmd.Flags().GetString("format")
			return showHistory(cfgPath, since, format, time.Now(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("since", "", `only show days from this date ("2024-01-31", "yesterday", "3 days ago")`)
	cmd.Flags().String("format", formatTable, "output format: table, json or yaml")
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's total and the last recorded session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			id, _ := cmd.Flags().GetString("session")
			if id != "" {
				return showSessionLog(cfgPath, id, cmd.OutOrStdout())
			}
			return showStatus(cfgPath, time.Now(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("session", "", "print every recorded event of the session with this ID")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create sleepy.toml and the state directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			stateDir, err := config.StateDir()
			if err != nil {
				return err
			}
			created, err := config.Scaffold(configDir, stateDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "Nothing to do: config and state directories already exist.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

// checkMinutes rejects a negative --minutes; 0 means the configured default.
func checkMinutes(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("--minutes %d: %w", minutes, session.ErrInvalidDuration)
	}
	return nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}
