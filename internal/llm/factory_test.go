package llm

import (
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "openai",
			config:   Config{Provider: "openai", APIKey: "k"},
			wantName: "openai",
		},
		{
			name:     "anthropic",
			config:   Config{Provider: "anthropic", APIKey: "k"},
			wantName: "anthropic",
		},
		{
			name:     "claude alias",
			config:   Config{Provider: "claude", APIKey: "k"},
			wantName: "anthropic",
		},
		{
			name:     "ollama",
			config:   Config{Provider: "ollama", Model: "llama3.1"},
			wantName: "ollama",
		},
		{
			name:     "case insensitive",
			config:   Config{Provider: "OpenAI", APIKey: "k"},
			wantName: "openai",
		},
		{
			name:    "empty means disabled",
			config:  Config{Provider: ""},
			wantNil: true,
		},
		{
			name:    "unknown provider",
			config:  Config{Provider: "bard"},
			wantErr: true,
		},
		{
			name:    "openai without key",
			config:  Config{Provider: "openai"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if tt.wantNil {
				if provider != nil {
					t.Fatalf("Expected nil provider, got %v", provider.Name())
				}
				return
			}
			if provider == nil {
				t.Fatal("Expected provider, got nil")
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProvider_UnknownListsSupported(t *testing.T) {
	_, err := NewProvider(Config{Provider: "bard"})
	if err == nil || !strings.Contains(err.Error(), "openai, anthropic, ollama") {
		t.Errorf("error should list supported providers, got %v", err)
	}
}
