// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"testing"

	"github.com/seshasairaw/smarthub-operations/internal/config"
)

func TestNewProvider_DefaultIsOpenAI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.OpenAIAPIKey = "sk-test"

	provider, err := NewProvider(&cfg.AI)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := provider.(*OpenAIProvider); !ok {
		t.Errorf("Expected *OpenAIProvider, got %T", provider)
	}
}

func TestNewProvider_Anthropic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "anthropic"
	cfg.AI.AnthropicAPIKey = "sk-ant-test"

	provider, err := NewProvider(&cfg.AI)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := provider.(*AnthropicProvider); !ok {
		t.Errorf("Expected *AnthropicProvider, got %T", provider)
	}
}

func TestNewProvider_AnthropicCaseInsensitive(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "Anthropic"
	cfg.AI.AnthropicAPIKey = "sk-ant-test"

	provider, err := NewProvider(&cfg.AI)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := provider.(*AnthropicProvider); !ok {
		t.Errorf("Expected *AnthropicProvider, got %T", provider)
	}
}

func TestNewProvider_FallbackToGenericKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "openai"
	cfg.AI.OpenAIAPIKey = ""
	cfg.AI.APIKey = "generic-key"

	provider, err := NewProvider(&cfg.AI)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := provider.(*OpenAIProvider); !ok {
		t.Errorf("Expected *OpenAIProvider, got %T", provider)
	}
}

func TestNewProvider_OpenAIMissingKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "openai"
	cfg.AI.OpenAIAPIKey = ""
	cfg.AI.APIKey = ""

	_, err := NewProvider(&cfg.AI)
	if err == nil {
		t.Fatal("Expected error for missing OpenAI API key, got nil")
	}
}

func TestNewProvider_AnthropicMissingKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "anthropic"
	cfg.AI.AnthropicAPIKey = ""
	cfg.AI.APIKey = ""

	_, err := NewProvider(&cfg.AI)
	if err == nil {
		t.Fatal("Expected error for missing Anthropic API key, got nil")
	}
}
