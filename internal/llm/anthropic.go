// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/newsdesk/pkg/types"
)

const anthropicMaxTokens = 4096

// Anthropic generates with the Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
	log    *slog.Logger
}

// NewAnthropic builds an Anthropic generator from cfg.
func NewAnthropic(cfg types.GenerationConfig, log *slog.Logger) *Anthropic {
	opts := []aoption.RequestOption{
		aoption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		aoption.WithMaxRetries(cfg.MaxRetries),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, aoption.WithBaseURL(strings.TrimSpace(cfg.BaseURL)))
	}
	if log == nil {
		log = discardLogger()
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  strings.TrimSpace(cfg.Model),
		log:    log.With("provider", "anthropic"),
	}
}

// Complete runs the request, answering tool_use blocks until the model
// stops calling tools or the iteration ceiling is reached.
func (p *Anthropic) Complete(ctx context.Context, req Request) (Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Tools:     buildAnthropicTools(req.Tools),
	}
	if strings.TrimSpace(req.System) != "" {
		params.System = []anthropic.TextBlockParam{{Text: strings.TrimSpace(req.System)}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	tools := newToolSet(req.Tools, p.log)
	var res Response
	limit := maxIterations(req)
	for res.Iterations < limit {
		msg, err := p.client.Messages.New(ctx, params)
		if err != nil {
			return res, fmt.Errorf("anthropic messages: %w", err)
		}
		res.Iterations++

		var (
			text    strings.Builder
			results []anthropic.ContentBlockParamUnion
		)
		for _, block := range msg.Content {
			switch v := block.AsAny().(type) {
			case anthropic.TextBlock:
				text.WriteString(v.Text)
			case anthropic.ToolUseBlock:
				res.ToolCalls++
				out, ok := tools.run(ctx, v.Name, v.Input)
				results = append(results, anthropic.NewToolResultBlock(v.ID, out, !ok))
			}
		}
		if strings.TrimSpace(text.String()) != "" {
			res.Text = text.String()
		}
		if len(results) == 0 {
			return res, nil
		}
		params.Messages = append(params.Messages, msg.ToParam(), anthropic.NewUserMessage(results...))
	}

	if strings.TrimSpace(res.Text) == "" {
		return res, ErrToolLoopExhausted
	}
	p.log.Warn("tool loop ceiling reached, returning last text", "iterations", res.Iterations)
	return res, nil
}

func buildAnthropicTools(defs []Tool) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		props, required := schemaParts(def.Parameters)
		param := anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: anthropic.ToolInputSchemaParam{Properties: props, Required: required},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &param})
	}
	return out
}
