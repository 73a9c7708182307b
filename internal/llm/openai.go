// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
	oshared "github.com/openai/openai-go/shared"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// OpenAI generates with the chat completions API. BaseURL lets it target
// OpenAI-compatible gateways.
type OpenAI struct {
	client openai.Client
	model  string
	log    *slog.Logger
}

// NewOpenAI builds an OpenAI generator from cfg.
func NewOpenAI(cfg types.GenerationConfig, log *slog.Logger) *OpenAI {
	opts := []ooption.RequestOption{
		ooption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		ooption.WithMaxRetries(cfg.MaxRetries),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, ooption.WithBaseURL(strings.TrimSpace(cfg.BaseURL)))
	}
	if log == nil {
		log = discardLogger()
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  strings.TrimSpace(cfg.Model),
		log:    log.With("provider", "openai"),
	}
}

// Complete runs the request, looping over tool calls until the model
// answers in text or the iteration ceiling is reached.
func (p *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 4)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model: oshared.ChatModel(p.model),
		Tools: buildOpenAITools(req.Tools),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.JSON && len(req.Tools) == 0 {
		obj := oshared.NewResponseFormatJSONObjectParam()
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{OfJSONObject: &obj}
	}

	tools := newToolSet(req.Tools, p.log)
	var res Response
	limit := maxIterations(req)
	for res.Iterations < limit {
		params.Messages = messages
		completion, err := p.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return res, fmt.Errorf("openai chat completion: %w", err)
		}
		res.Iterations++
		if len(completion.Choices) == 0 {
			return res, fmt.Errorf("openai chat completion: empty response")
		}
		msg := completion.Choices[0].Message
		if strings.TrimSpace(msg.Content) != "" {
			res.Text = msg.Content
		}
		if len(msg.ToolCalls) == 0 {
			return res, nil
		}

		messages = append(messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			res.ToolCalls++
			out, _ := tools.run(ctx, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
			messages = append(messages, openai.ToolMessage(out, tc.ID))
		}
	}

	if strings.TrimSpace(res.Text) == "" {
		return res, ErrToolLoopExhausted
	}
	p.log.Warn("tool loop ceiling reached, returning last text", "iterations", res.Iterations)
	return res, nil
}

func buildOpenAITools(defs []Tool) []openai.ChatCompletionToolParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		schema := def.Parameters
		if schema == nil {
			schema = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: oshared.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  oshared.FunctionParameters(schema),
			},
		})
	}
	return out
}
