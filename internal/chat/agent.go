// ABOUTME: Conversational agent loop translating user messages into tool calls.
// ABOUTME: Runs the Chat Completions function-calling cycle against the registry.

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"

	"github.com/verdantlabs/todo-gateway/internal/tools"
)

const systemPrompt = "You are a helpful task management assistant. " +
	"You help users manage their todo list using the available tools. " +
	"When a tool returns a message, relay it to the user naturally. " +
	"Never invent task IDs; look them up with list_tasks first if needed."

// maxToolRounds bounds the tool-call cycle so a confused model cannot loop forever.
const maxToolRounds = 5

// Agent runs the function-calling loop: it sends the user's message and the
// tool catalog to the model, executes any requested tools against the
// registry, feeds the envelopes back, and returns the model's final text.
type Agent struct {
	completer Completer
	registry  *tools.Registry
	model     string
	logger    *slog.Logger
}

// NewAgent creates an agent for the given model name.
func NewAgent(completer Completer, registry *tools.Registry, model string, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &Agent{
		completer: completer,
		registry:  registry,
		model:     model,
		logger:    logger,
	}
}

// Respond processes one user message on behalf of userID and returns the
// assistant's reply text.
func (a *Agent) Respond(ctx context.Context, userID, message string) (string, error) {
	toolParams, err := a.toolParams()
	if err != nil {
		return "", fmt.Errorf("building tool catalog: %w", err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(message),
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.completer.Complete(ctx, openai.ChatCompletionNewParams{
			Messages: messages,
			Model:    a.model,
			Tools:    toolParams,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices returned")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, assistantToolCallMessage(msg))
		for _, tc := range msg.ToolCalls {
			a.logger.Debug("agent tool call", "tool_name", tc.Function.Name, "user_id", userID)

			result, err := a.registry.Invoke(ctx, userID, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
			if err != nil {
				return "", fmt.Errorf("tool %s: %w", tc.Function.Name, err)
			}
			messages = append(messages, openai.ToolMessage(string(result), tc.ID))
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", maxToolRounds)
}

// toolParams converts the registry catalog into OpenAI tool definitions.
func (a *Agent) toolParams() ([]openai.ChatCompletionToolParam, error) {
	specs, err := a.registry.FunctionSpecs()
	if err != nil {
		return nil, err
	}

	params := make([]openai.ChatCompletionToolParam, len(specs))
	for i, spec := range specs {
		params[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        spec.Function.Name,
				Description: openai.String(spec.Function.Description),
				Parameters:  spec.Function.Parameters,
			},
		}
	}
	return params, nil
}

// assistantToolCallMessage echoes the model's tool-call turn back into the
// conversation so the follow-up completion sees its own requests.
func assistantToolCallMessage(msg openai.ChatCompletionMessage) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		calls[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   tc.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		}
	}
	return openai.ChatCompletionMessageParamUnion{
		OfAssistant: &openai.ChatCompletionAssistantMessageParam{
			Role:      "assistant",
			ToolCalls: calls,
		},
	}
}
