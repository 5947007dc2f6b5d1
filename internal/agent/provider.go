// SPDX-License-Identifier: AGPL-3.0-only

// Package agent provides a provider-agnostic chat-completion layer so the
// assistant can run against any hosted LLM backend.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/seshasairaw/smarthub-operations/internal/config"
)

// Message roles used in a transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolDefinition is a provider-agnostic representation of a tool that can be
// offered to an LLM during a chat completion.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall represents a single tool invocation requested by the model.
// Arguments is the raw serialized payload; it is model-originated input and
// must be parsed defensively.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is a provider-agnostic chat message.
type Message struct {
	Role       string     // "system", "user", "assistant", "tool"
	Content    string     // text content
	ToolCalls  []ToolCall // tool calls requested by the assistant
	ToolCallID string     // set when Role == "tool" to correlate with a ToolCall
}

// CompletionRequest is one chat-completion call. Messages may begin with a
// system message; providers that take system instructions out-of-band lift
// it from the transcript themselves.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int64
}

// ChatProvider abstracts a chat-completion backend so the orchestration loop
// can work with any LLM provider.
type ChatProvider interface {
	// CreateCompletion sends a chat completion request and returns the
	// assistant's response message, which carries either text content or
	// tool-call requests.
	CreateCompletion(ctx context.Context, req CompletionRequest) (*Message, error)
}

// NewProvider builds the appropriate ChatProvider based on cfg.Provider.
func NewProvider(cfg *config.AIConfig) (ChatProvider, error) {
	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case "anthropic":
		apiKey := cfg.AnthropicAPIKey
		if apiKey == "" {
			apiKey = cfg.APIKey
		}
		if apiKey == "" {
			return nil, fmt.Errorf("Anthropic API key is not set in configuration")
		}
		return NewAnthropicProvider(apiKey), nil
	default: // "openai" or empty
		apiKey := cfg.OpenAIAPIKey
		if apiKey == "" {
			apiKey = cfg.APIKey
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key is not set in configuration")
		}
		return NewOpenAIProvider(apiKey, cfg.BaseURL), nil
	}
}
