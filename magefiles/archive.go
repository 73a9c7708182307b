//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Ingest builds the CLI and indexes archive/articles into the archive.
func Ingest() error {
	mg.Deps(Build)
	dir := "archive/articles"
	if v := os.Getenv("NEWSDESK_ARTICLES"); v != "" {
		dir = v
	}
	bin := binDir + "/" + binName
	if err := sh.RunV(bin, "archive", "ingest", dir); err != nil {
		return fmt.Errorf("archive ingest: %w", err)
	}
	return nil
}

// Serve builds the CLI and starts the HTTP surface.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binDir+"/"+binName, "serve")
}
