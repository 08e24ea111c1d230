// Package tools presents the task store as a catalog of named,
// schema-described operations invocable by an LLM function-calling layer.
//
// Each tool is declared once in a static table (TaskPack): name, a
// natural-language description that steers model selection, and a JSON
// Schema for its parameters. The Registry dispatches invocations by name
// and returns a uniform envelope for every outcome:
//
//	{"success": true, ...payload, "message": "..."}
//	{"success": false, "error": "..."}
//
// The message field is written to be quoted verbatim by the agent and never
// contains identifiers beyond what is user-meaningful. Domain failures
// (validation, not found, unknown tool) are returned as envelope data, never
// as raised faults, so the narration layer can relay them without knowing
// the error taxonomy. Only infrastructure failures surface as Go errors.
//
// The same catalog is exported in two shapes: Definition for the MCP
// tools/list surface and FunctionSpec for the OpenAI Chat Completions
// tools parameter.
package tools
