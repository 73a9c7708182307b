// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsdesk/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKey, "  sk-abc123  \n")
				writeFile(t, dir, TavilyKey, "tvly-xyz789")
				writeFile(t, dir, GeminiKey, "gm-key\n")
				return dir
			},
			want: map[string]string{
				OpenAIKey: "sk-abc123",
				TavilyKey: "tvly-xyz789",
				GeminiKey: "gm-key",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, TavilyKey, "tvly-real")
				return dir
			},
			want: map[string]string{
				TavilyKey: "tvly-real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, dir, ".env", "NEWSDESK_TEST_FROM_FILE=file\nNEWSDESK_TEST_PRESET=file\n")

	t.Setenv("NEWSDESK_TEST_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("NEWSDESK_TEST_FROM_FILE") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "file", os.Getenv("NEWSDESK_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("NEWSDESK_TEST_PRESET"), "existing variables are not overridden")

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestApply(t *testing.T) {
	files := map[string]string{
		OpenAIKey:    "sk-file",
		AnthropicKey: "ant-file",
		TavilyKey:    "tvly-file",
	}
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	tests := []struct {
		name    string
		cfg     types.Config
		env     map[string]string
		wantGen string
		wantWeb string
	}{
		{
			name:    "files fill empty keys",
			cfg:     types.DefaultConfig(),
			wantGen: "sk-file",
			wantWeb: "tvly-file",
		},
		{
			name:    "environment beats files",
			cfg:     types.DefaultConfig(),
			env:     map[string]string{"OPENAI_API_KEY": "sk-env"},
			wantGen: "sk-env",
			wantWeb: "tvly-file",
		},
		{
			name: "configured key wins",
			cfg: func() types.Config {
				c := types.DefaultConfig()
				c.Generation.Provider = "anthropic"
				c.Generation.APIKey = "ant-config"
				return c
			}(),
			env:     map[string]string{"ANTHROPIC_API_KEY": "ant-env"},
			wantGen: "ant-config",
			wantWeb: "tvly-file",
		},
		{
			name: "provider selects the key",
			cfg: func() types.Config {
				c := types.DefaultConfig()
				c.Generation.Provider = "anthropic"
				return c
			}(),
			wantGen: "ant-file",
			wantWeb: "tvly-file",
		},
		{
			name: "unknown provider stays empty",
			cfg: func() types.Config {
				c := types.DefaultConfig()
				c.Generation.Provider = "mystery"
				return c
			}(),
			wantWeb: "tvly-file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			Apply(&cfg, files, env(tt.env))
			assert.Equal(t, tt.wantGen, cfg.Generation.APIKey)
			assert.Equal(t, tt.wantWeb, cfg.Web.APIKey)
		})
	}
}
