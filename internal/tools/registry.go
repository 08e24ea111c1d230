// ABOUTME: Registry mapping tool names to definitions and handlers.
// ABOUTME: Dispatches invocations and exports the catalog for LLM function calling.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Registry maintains the catalog of registered tools.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Tool
	order  []string // registration order, for a deterministic catalog
	logger *slog.Logger
}

// NewRegistry creates a new Registry instance.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds tools to the registry. Returns an error on a name collision.
func (r *Registry) Register(tools ...*Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range tools {
		name := tool.Definition.Name
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool %q already registered", name)
		}
		r.tools[name] = tool
		r.order = append(r.order, name)
	}

	r.logger.Info("tools registered", "count", len(tools), "total", len(r.tools))
	return nil
}

// Get returns a tool by name, or nil if not registered.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// List returns all tool definitions in registration order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Invoke dispatches a tool call and returns the uniform envelope. Every
// domain outcome, including an unknown tool name, is returned as envelope
// data so the narration layer never has to handle a raised fault; a non-nil
// error indicates an infrastructure failure only.
func (r *Registry) Invoke(ctx context.Context, userID, name string, input json.RawMessage) (json.RawMessage, error) {
	tool := r.Get(name)
	if tool == nil {
		r.logger.Warn("unknown tool requested", "tool_name", name, "user_id", userID)
		return failure(fmt.Sprintf("Unknown tool: %s", name)), nil
	}

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	r.logger.Debug("dispatching tool", "tool_name", name, "user_id", userID)

	out, err := tool.Handler(ctx, userID, input)
	if err != nil {
		r.logger.Error("tool execution failed", "tool_name", name, "error", err)
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return out, nil
}

// FunctionSpec is a tool definition in the OpenAI function-calling format.
type FunctionSpec struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef is the function part of a FunctionSpec.
type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// FunctionSpecs exports the catalog in the shape consumed by the OpenAI
// Chat Completions tools parameter.
func (r *Registry) FunctionSpecs() ([]FunctionSpec, error) {
	defs := r.List()
	specs := make([]FunctionSpec, 0, len(defs))
	for _, def := range defs {
		var params map[string]any
		if err := json.Unmarshal([]byte(def.InputSchemaJSON), &params); err != nil {
			return nil, fmt.Errorf("parsing schema for %s: %w", def.Name, err)
		}
		specs = append(specs, FunctionSpec{
			Type: "function",
			Function: FunctionDef{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  params,
			},
		})
	}
	return specs, nil
}
