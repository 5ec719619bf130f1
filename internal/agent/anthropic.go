// File: internal/agent/anthropic.go
// Description: Anthropic implementation of the model transport. Converts the
// neutral conversation to messages-API params, declares the single
// "computer" tool, and maps the response back.

package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/Singularity-tian/computer-use-experiment/internal/computer"
	"github.com/Singularity-tian/computer-use-experiment/internal/config"
)

// systemPrompt steers the model toward the screenshot-verify-act loop the
// orchestrator expects.
const systemPrompt = `You are a computer use assistant that can control a computer.
When performing tasks:
1. Always take a screenshot first to see the current state of the screen.
2. After each action, take another screenshot to verify the result.
3. Be precise with click coordinates - aim for the center of buttons and UI elements.
4. If something doesn't work, try alternative approaches.
5. Report your progress and any issues you encounter.
`

// computerToolName is the single capability declared to the model.
const computerToolName = "computer"

// AnthropicTransport sends conversations to the Anthropic messages API.
type AnthropicTransport struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	tool      anthropic.ToolUnionParam
	logger    *zap.Logger
}

var _ Transport = (*AnthropicTransport)(nil)

// NewAnthropicTransport builds a transport for the configured model. The
// display dimensions are advertised in the tool schema so the model reasons
// in the same coordinate space the dispatcher validates against.
func NewAnthropicTransport(cfg config.ModelConfig, width, height int, logger *zap.Logger) (*AnthropicTransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &AnthropicTransport{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Name,
		maxTokens: int64(cfg.MaxTokens),
		tool:      computerToolParam(width, height),
		logger:    logger.Named("transport"),
	}, nil
}

// Send issues one model request. No retry: a failure here terminates the run.
func (t *AnthropicTransport) Send(ctx context.Context, conversation []Turn) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(t.model),
		MaxTokens: t.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Tools:     []anthropic.ToolUnionParam{t.tool},
		Messages:  buildMessages(conversation),
	}

	msg, err := t.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := &Response{StopReason: mapStopReason(msg.StopReason)}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Blocks = append(resp.Blocks, TextBlock(v.Text))
		case anthropic.ToolUseBlock:
			resp.Blocks = append(resp.Blocks, ToolUseBlock(v.ID, v.Name, json.RawMessage(v.Input)))
		}
	}

	t.logger.Debug("Model response received",
		zap.String("stop_reason", string(resp.StopReason)),
		zap.Int("blocks", len(resp.Blocks)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return resp, nil
}

// computerToolParam declares the computer tool schema, including the pixel
// dimensions of the controlled display.
func computerToolParam(width, height int) anthropic.ToolUnionParam {
	properties := map[string]any{
		"action": map[string]any{
			"type": "string",
			"enum": []string{
				"screenshot", "left_click", "right_click", "middle_click",
				"double_click", "triple_click", "left_click_drag", "mouse_move",
				"type", "key", "scroll", "wait",
			},
			"description": "The action to perform on the computer.",
		},
		"coordinate": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "integer"},
			"minItems":    2,
			"maxItems":    2,
			"description": "[x, y] pixel coordinate. Required for click, mouse_move and scroll actions; the drag end point for left_click_drag.",
		},
		"start_coordinate": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "integer"},
			"minItems":    2,
			"maxItems":    2,
			"description": "[x, y] pixel coordinate where a left_click_drag starts.",
		},
		"text": map[string]any{
			"type":        "string",
			"description": "Text to type. Required for the type action.",
		},
		"key": map[string]any{
			"type":        "string",
			"description": "Key or key combination to press, e.g. 'enter' or 'cmd+c'. Required for the key action.",
		},
		"scroll_direction": map[string]any{
			"type":        "string",
			"enum":        []string{"up", "down", "left", "right"},
			"description": "Direction to scroll. Required for the scroll action.",
		},
		"scroll_amount": map[string]any{
			"type":        "integer",
			"description": "Number of scroll ticks. Defaults to 3.",
		},
		"duration": map[string]any{
			"type":        "number",
			"description": "Seconds to wait for the wait action. Defaults to 1.0.",
		},
	}

	param := anthropic.ToolParam{
		Name: computerToolName,
		Description: anthropic.String(fmt.Sprintf(
			"Control a computer with a %dx%d pixel display. Coordinates are zero-based with the origin at the top-left corner.",
			width, height,
		)),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: properties,
			Required:   []string{"action"},
		},
	}
	return anthropic.ToolUnionParam{OfTool: &param}
}

// buildMessages converts the neutral conversation into messages-API params.
func buildMessages(conversation []Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(conversation))
	for _, turn := range conversation {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Content))
		for _, b := range turn.Content {
			switch b.Type {
			case BlockText:
				if b.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(b.Text))
				}
			case BlockToolUse:
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    b.ID,
						Name:  b.Name,
						Input: b.Input,
					},
				})
			case BlockToolResult:
				blocks = append(blocks, toolResultParam(b))
			}
		}
		if len(blocks) == 0 {
			continue
		}
		if turn.Role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// toolResultParam converts one outcome into a tool_result content block.
// Image outcomes are sent as base64 image content; errors set the is_error
// flag so the model can adapt.
func toolResultParam(b Block) anthropic.ContentBlockParamUnion {
	if b.Result == nil {
		return anthropic.NewToolResultBlock(b.ID, "Action completed", false)
	}
	switch b.Result.Type {
	case computer.OutcomeImage:
		return anthropic.ContentBlockParamUnion{
			OfToolResult: &anthropic.ToolResultBlockParam{
				ToolUseID: b.ID,
				Content: []anthropic.ToolResultBlockParamContentUnion{
					{
						OfImage: &anthropic.ImageBlockParam{
							Source: anthropic.ImageBlockParamSourceUnion{
								OfBase64: &anthropic.Base64ImageSourceParam{
									Data:      base64.StdEncoding.EncodeToString(b.Result.Data),
									MediaType: anthropic.Base64ImageSourceMediaType(b.Result.MediaType),
								},
							},
						},
					},
				},
			},
		}
	case computer.OutcomeError:
		return anthropic.NewToolResultBlock(b.ID, b.Result.Text, true)
	default:
		text := b.Result.Text
		if text == "" {
			text = "Action completed"
		}
		return anthropic.NewToolResultBlock(b.ID, text, false)
	}
}

// mapStopReason folds the provider's stop reasons into the neutral set.
func mapStopReason(reason anthropic.StopReason) StopReason {
	switch reason {
	case anthropic.StopReasonEndTurn:
		return StopEndTurn
	case anthropic.StopReasonToolUse:
		return StopToolUse
	case anthropic.StopReasonMaxTokens:
		return StopMaxTokens
	default:
		return StopOther
	}
}
