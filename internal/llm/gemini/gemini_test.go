package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("BOOKCHAT_TEST_GEMINI_KEY", "")
	_, err := NewClient(context.Background(), Config{APIKeyEnv: "BOOKCHAT_TEST_GEMINI_KEY", Model: "gemini-1.5-flash"})
	assert.Error(t, err)
}

func TestJoinText(t *testing.T) {
	out, err := joinText([]genai.Part{genai.Text("Arrakis "), genai.Blob{MIMEType: "image/png"}, genai.Text("is hot.")})
	require.NoError(t, err)
	assert.Equal(t, "Arrakis is hot.", out)

	_, err = joinText([]genai.Part{genai.Blob{MIMEType: "image/png"}})
	assert.Error(t, err)
}
