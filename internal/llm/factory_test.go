package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		expectErr string
	}{
		{"anthropic", Config{Provider: "anthropic", APIKey: "key"}, ""},
		{"openai", Config{Provider: "openai", APIKey: "key"}, ""},
		{"case insensitive", Config{Provider: "Anthropic", APIKey: "key"}, ""},
		{"missing key", Config{Provider: "anthropic"}, "API key is required"},
		{"unsupported", Config{Provider: "bedrock", APIKey: "key"}, "unsupported LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestConfigSummaryModelName(t *testing.T) {
	assert.Equal(t, "cheap", Config{SummaryModel: "cheap", Models: []string{"big"}}.SummaryModelName())
	assert.Equal(t, "small", Config{Models: []string{"big", "small"}}.SummaryModelName())
	assert.Empty(t, Config{}.SummaryModelName())
}
