// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/newsdesk/internal/archive"
	"github.com/pdiddy/newsdesk/internal/generate"
	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/internal/websearch"
)

// newOrchestrator wires the configured capabilities. The returned close
// function releases the archive.
func newOrchestrator(ctx context.Context) (*generate.Orchestrator, func(), error) {
	gen, err := llm.New(ctx, cfg.Generation, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring generator: %w", err)
	}

	web, err := websearch.New(cfg.Web)
	switch {
	case errors.Is(err, websearch.ErrNoAPIKey):
		logger.Debug("web search disabled: no API key")
	case err != nil:
		return nil, nil, fmt.Errorf("configuring web search: %w", err)
	}

	guidelines, err := generate.LoadGuidelines(cfg.Generation.GuidelinesFile)
	if err != nil {
		return nil, nil, err
	}

	arch := archive.NewLazy(cfg.Archive)
	o := generate.New(arch, web, gen, cfg, logger)
	o.Guidelines = guidelines
	return o, func() {
		if err := arch.Close(); err != nil {
			logger.Warn("closing archive", "error", err)
		}
	}, nil
}

// writeOutput encodes v to w as json or yaml.
func writeOutput(w io.Writer, v any, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use json, yaml, or markdown", format)
	}
}

// printWarning reports an artifact warning on stderr.
func printWarning(warning *string) {
	if warning != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", *warning)
	}
}
