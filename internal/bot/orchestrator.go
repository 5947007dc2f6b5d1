// SPDX-License-Identifier: AGPL-3.0-only
package bot

import (
	"context"

	"github.com/seshasairaw/smarthub-operations/internal/agent"
	"github.com/seshasairaw/smarthub-operations/internal/config"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
)

// systemPrompt anchors every conversation. It is always the first transcript
// message.
const systemPrompt = `You are an AI assistant for Smart Operations Hub,
a logistics operations dashboard. You help operations managers
understand shipment data, exceptions, and vendor performance.

Guidelines:
- Always base your answers on the live data fetched via tools
- Keep responses concise and focused on logistics operations
- Use bullet points for lists of exceptions or vendors
- If asked something outside logistics operations, politely decline
- Always mention specific numbers and data points in your answers
`

// fallbackReply is returned whenever a completion call fails, so the
// frontend always gets a usable reply.
const fallbackReply = "I encountered an error processing your request. Please try again."

// historyWindow bounds how much prior conversation is replayed to the model:
// the last 6 entries, i.e. 3 exchanges.
const historyWindow = 6

// HistoryEntry is one prior message supplied by the frontend.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Orchestrator runs the two-round chat loop: one completion with the tool
// registry offered, tool execution, then one completion without tools to
// phrase the answer.
type Orchestrator struct {
	provider agent.ChatProvider
	executor *Executor
	ai       *config.AIConfig
	logger   *logging.Logger
}

// NewOrchestrator wires the orchestrator from its collaborators.
func NewOrchestrator(provider agent.ChatProvider, executor *Executor, ai *config.AIConfig, logger *logging.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		executor: executor,
		ai:       ai,
		logger:   logger,
	}
}

// Chat answers one user message. It always returns a reply; upstream
// failures degrade to the fallback text instead of propagating.
func (o *Orchestrator) Chat(ctx context.Context, message string, history []HistoryEntry) string {
	msgs := buildTranscript(message, history)

	first, err := o.complete(ctx, msgs, Definitions())
	if err != nil {
		o.logger.Errorf("First completion failed: %v", err)
		return fallbackReply
	}

	// No tool calls means the model answered directly.
	if len(first.ToolCalls) == 0 {
		return first.Content
	}

	// Replay the assistant's tool request, then execute every call in the
	// order the model asked for them. Each result is correlated back by
	// tool call ID.
	msgs = append(msgs, *first)
	o.logger.Debugf("Model requested %d tool calls", len(first.ToolCalls))
	for _, call := range first.ToolCalls {
		result := o.executor.Execute(ctx, call)
		msgs = append(msgs, agent.Message{
			Role:       agent.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}

	// Second round: the model now has the tool results and answers without
	// being offered tools again.
	second, err := o.complete(ctx, msgs, nil)
	if err != nil {
		o.logger.Errorf("Second completion failed: %v", err)
		return fallbackReply
	}
	return second.Content
}

func (o *Orchestrator) complete(ctx context.Context, msgs []agent.Message, tools []agent.ToolDefinition) (*agent.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, o.ai.CompletionTimeout)
	defer cancel()
	return o.provider.CreateCompletion(ctx, agent.CompletionRequest{
		Model:       o.ai.Model,
		Messages:    msgs,
		Tools:       tools,
		Temperature: o.ai.Temperature,
		MaxTokens:   o.ai.MaxTokens,
	})
}

// buildTranscript assembles the completion transcript: the system prompt,
// the most recent history entries filtered to clean user/assistant turns,
// then the current user message.
func buildTranscript(message string, history []HistoryEntry) []agent.Message {
	msgs := make([]agent.Message, 0, historyWindow+2)
	msgs = append(msgs, agent.Message{Role: agent.RoleSystem, Content: systemPrompt})

	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, h := range history[start:] {
		if h.Role != agent.RoleUser && h.Role != agent.RoleAssistant {
			continue
		}
		msgs = append(msgs, agent.Message{Role: h.Role, Content: h.Content})
	}

	msgs = append(msgs, agent.Message{Role: agent.RoleUser, Content: message})
	return msgs
}
