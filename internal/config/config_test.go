package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "pinecone", cfg.VectorStore.Type)
	assert.Equal(t, "openai", cfg.LLM.Type)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "PINECONE_API_KEY", cfg.VectorStore.Pinecone.APIKeyEnv)
	assert.Equal(t, 0, cfg.LLM.MaxPromptChars)
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("BOOKCHAT_TEST_HOST", "https://books-abc.svc.pinecone.io")

	cfg, err := Parse([]byte(`
vector_store:
  type: pinecone
  dimension: 1536
  pinecone:
    host: ${BOOKCHAT_TEST_HOST}
    namespace: ${BOOKCHAT_TEST_NS:-books}
`))
	require.NoError(t, err)
	assert.Equal(t, "https://books-abc.svc.pinecone.io", cfg.VectorStore.Pinecone.Host)
	assert.Equal(t, "books", cfg.VectorStore.Pinecone.Namespace)
	assert.Equal(t, 1536, cfg.VectorStore.Dimension)
	assert.Equal(t, 15, cfg.VectorStore.Pinecone.TimeoutSecs)
}

func TestParse_Gemini(t *testing.T) {
	cfg, err := Parse([]byte(`
vector_store:
  type: memory
  memory:
    path: books.yaml
llm:
  type: gemini
  max_prompt_chars: 4000
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Gemini)
	assert.Equal(t, "GEMINI_API_KEY", cfg.LLM.Gemini.APIKeyEnv)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 4000, cfg.LLM.MaxPromptChars)
	assert.Nil(t, cfg.LLM.OpenAI)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown store", "vector_store:\n  type: faiss\n"},
		{"pinecone without host", "vector_store:\n  type: pinecone\n"},
		{"qdrant without collection", "vector_store:\n  type: qdrant\n  qdrant:\n    url: http://localhost:6333\n"},
		{"memory without path", "vector_store:\n  type: memory\n"},
		{"unknown llm", "vector_store:\n  type: memory\n  memory:\n    path: x.yaml\nllm:\n  type: claude\n"},
		{"unknown embedder", "embedder:\n  type: tfidf\nvector_store:\n  type: memory\n  memory:\n    path: x.yaml\n"},
		{"negative cap", "vector_store:\n  type: memory\n  memory:\n    path: x.yaml\nllm:\n  max_prompt_chars: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.VectorStore.Pinecone.Host = "https://example.pinecone.io"

	require.NoError(t, Save(path, cfg))
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
