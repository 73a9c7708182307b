// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a .env file, the process environment,
// and a directory of plain-text key files. In the key directory each file
// is one secret: the filename is the key name and the trimmed contents are
// the value.
//
// Supported key files: openai-api-key, anthropic-api-key, gemini-api-key, tavily-api-key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Key file names and the environment variables that supply the same value.
const (
	OpenAIKey    = "openai-api-key"
	AnthropicKey = "anthropic-api-key"
	GeminiKey    = "gemini-api-key"
	TavilyKey    = "tavily-api-key"
)

var envNames = map[string]string{
	OpenAIKey:    "OPENAI_API_KEY",
	AnthropicKey: "ANTHROPIC_API_KEY",
	GeminiKey:    "GEMINI_API_KEY",
	TavilyKey:    "TAVILY_API_KEY",
}

var providerKeys = map[string]string{
	"openai":    OpenAIKey,
	"anthropic": AnthropicKey,
	"gemini":    GeminiKey,
	"tavily":    TavilyKey,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// LoadEnvFile exports the variables in a .env file that are not already
// set in the process environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Apply fills empty API keys in cfg for the configured providers. A key
// already set in cfg wins, then the provider's standard environment
// variable, then the matching file in secrets.
func Apply(cfg *types.Config, secrets map[string]string, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	lookup := func(provider string) string {
		name, ok := providerKeys[strings.ToLower(strings.TrimSpace(provider))]
		if !ok {
			return ""
		}
		if v := strings.TrimSpace(getenv(envNames[name])); v != "" {
			return v
		}
		return secrets[name]
	}

	genProvider := cfg.Generation.Provider
	if genProvider == "" {
		genProvider = "openai"
	}
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = lookup(genProvider)
	}

	webProvider := cfg.Web.Provider
	if webProvider == "" {
		webProvider = "tavily"
	}
	if cfg.Web.APIKey == "" {
		cfg.Web.APIKey = lookup(webProvider)
	}
}
