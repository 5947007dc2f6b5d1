// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"testing"

	"github.com/openai/openai-go"
)

func TestToOpenAITools(t *testing.T) {
	tools := []ToolDefinition{
		{
			Name:        "get_exceptions",
			Description: "Get live exception records",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of exceptions",
					},
				},
			},
		},
		{
			Name:        "get_summary",
			Description: "Get shipment summary statistics",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}

	result := toOpenAITools(tools)

	if len(result) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(result))
	}
	if result[0].Function.Name != "get_exceptions" {
		t.Errorf("Expected tool name 'get_exceptions', got '%s'", result[0].Function.Name)
	}
	if result[1].Function.Name != "get_summary" {
		t.Errorf("Expected tool name 'get_summary', got '%s'", result[1].Function.Name)
	}
}

func TestToOpenAIMessage_System(t *testing.T) {
	msg := Message{Role: "system", Content: "You are a logistics assistant"}
	result := toOpenAIMessage(msg)

	if result.OfSystem == nil {
		t.Fatal("Expected system message, got nil")
	}
}

func TestToOpenAIMessage_User(t *testing.T) {
	msg := Message{Role: "user", Content: "How many shipments are delayed?"}
	result := toOpenAIMessage(msg)

	if result.OfUser == nil {
		t.Fatal("Expected user message, got nil")
	}
}

func TestToOpenAIMessage_Tool(t *testing.T) {
	msg := Message{Role: "tool", Content: `{"delayed_shipments": 4}`, ToolCallID: "call_123"}
	result := toOpenAIMessage(msg)

	if result.OfTool == nil {
		t.Fatal("Expected tool message, got nil")
	}
	if result.OfTool.ToolCallID != "call_123" {
		t.Errorf("Expected ToolCallID 'call_123', got '%s'", result.OfTool.ToolCallID)
	}
}

func TestToOpenAIMessage_AssistantWithToolCalls(t *testing.T) {
	msg := Message{
		Role: "assistant",
		ToolCalls: []ToolCall{
			{ID: "call_1", Name: "get_summary", Arguments: `{}`},
			{ID: "call_2", Name: "get_exceptions", Arguments: `{"limit":5}`},
		},
	}
	result := toOpenAIMessage(msg)

	if result.OfAssistant == nil {
		t.Fatal("Expected assistant message, got nil")
	}
	if len(result.OfAssistant.ToolCalls) != 2 {
		t.Fatalf("Expected 2 tool calls, got %d", len(result.OfAssistant.ToolCalls))
	}
	if result.OfAssistant.ToolCalls[0].ID != "call_1" {
		t.Errorf("Expected tool call ID 'call_1', got '%s'", result.OfAssistant.ToolCalls[0].ID)
	}
	if result.OfAssistant.ToolCalls[1].Function.Arguments != `{"limit":5}` {
		t.Errorf("Expected arguments '{\"limit\":5}', got '%s'", result.OfAssistant.ToolCalls[1].Function.Arguments)
	}
}

func TestFromOpenAIMessage_TextOnly(t *testing.T) {
	oaiMsg := openai.ChatCompletionMessage{
		Content: "There are 4 delayed shipments.",
	}

	result := fromOpenAIMessage(oaiMsg)

	if result.Role != "assistant" {
		t.Errorf("Expected role 'assistant', got '%s'", result.Role)
	}
	if result.Content != "There are 4 delayed shipments." {
		t.Errorf("Unexpected content: %q", result.Content)
	}
	if len(result.ToolCalls) != 0 {
		t.Errorf("Expected 0 tool calls, got %d", len(result.ToolCalls))
	}
}

func TestFromOpenAIMessage_WithToolCalls(t *testing.T) {
	oaiMsg := openai.ChatCompletionMessage{
		Content: "",
		ToolCalls: []openai.ChatCompletionMessageToolCall{
			{
				ID: "call_abc",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      "get_delayed_shipments",
					Arguments: `{}`,
				},
			},
		},
	}

	result := fromOpenAIMessage(oaiMsg)

	if len(result.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(result.ToolCalls))
	}
	tc := result.ToolCalls[0]
	if tc.ID != "call_abc" {
		t.Errorf("Expected ID 'call_abc', got '%s'", tc.ID)
	}
	if tc.Name != "get_delayed_shipments" {
		t.Errorf("Expected name 'get_delayed_shipments', got '%s'", tc.Name)
	}
}
