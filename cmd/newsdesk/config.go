// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// setDefaults registers every config key with v so that NEWSDESK_*
// environment variables are seen by Unmarshal.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("relevance.min_score", d.Relevance.MinScore)
	v.SetDefault("relevance.high_score", d.Relevance.HighScore)

	v.SetDefault("archive.dir", d.Archive.Dir)
	v.SetDefault("archive.top_k", d.Archive.TopK)

	v.SetDefault("web.timeout", d.Web.Timeout)
	v.SetDefault("web.user_agent", d.Web.UserAgent)
	v.SetDefault("web.provider", d.Web.Provider)
	v.SetDefault("web.api_key", d.Web.APIKey)
	v.SetDefault("web.max_results", d.Web.MaxResults)
	v.SetDefault("web.cache_size", d.Web.CacheSize)

	v.SetDefault("generation.provider", d.Generation.Provider)
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.api_key", d.Generation.APIKey)
	v.SetDefault("generation.base_url", d.Generation.BaseURL)
	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("generation.max_retries", d.Generation.MaxRetries)
	v.SetDefault("generation.guidelines_file", d.Generation.GuidelinesFile)

	v.SetDefault("serve.addr", d.Serve.Addr)
}

// loadConfig decodes the merged file, environment, and default settings.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	c := types.DefaultConfig()
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parsing configuration: %w", err)
	}
	return c, nil
}
