// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsdesk CLI.
// Implements: the ideas, outline, and draft tasks, archive management,
// and the HTTP surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsdesk/internal/secrets"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, populated before any subcommand runs.
	cfg types.Config

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// rootCmd is the base command for the newsdesk CLI.
var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Research assistant for journalists with citation checking",
	Long: `newsdesk turns an archive of published articles, and optionally the web,
into article ideas, outlines, and full drafts. Every claim the generator makes
cites a numbered source; citations are checked against the source list and
expanded to [N, source, title, date] before output.

Index articles with "newsdesk archive ingest", then run ideas, outline, and
draft, or start the HTTP surface with "newsdesk serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := newLogger(level)
		if err != nil {
			return err
		}
		logger = l

		if err := secrets.LoadEnvFile(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}

		c, err := loadConfig()
		if err != nil {
			return err
		}
		secrets.Apply(&c, s, os.Getenv)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./newsdesk.yaml or ~/.config/newsdesk/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("newsdesk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "newsdesk"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultConfig())
	viper.SetEnvPrefix("NEWSDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a text logger on stderr at the named level.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
