package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookchat/internal/domain"
	"bookchat/internal/service"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/embeddings") {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{1, 0}}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "An expanded summary."},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(server.Close)
	t.Setenv("BOOKCHAT_TEST_KEY", "test-key")

	dir := t.TempDir()
	seedPath := filepath.Join(dir, "books.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`dimension: 2
records:
  - id: "1"
    vector: [1, 0]
    metadata: {book_title: Dune, book_author: Frank Herbert, Language: en, year_of_publication: 1965.0}
  - id: "2"
    vector: [0, 1]
    metadata: {book_title: Emma, book_author: Jane Austen, Language: en}
`), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
embedder:
  openai: {base_url: "`+server.URL+`", api_key_env: BOOKCHAT_TEST_KEY}
vector_store:
  type: memory
  memory: {path: "`+seedPath+`"}
llm:
  openai: {base_url: "`+server.URL+`", api_key_env: BOOKCHAT_TEST_KEY}
logging: {level: error}
`), 0o644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "lookup", "Dune")
	require.NoError(t, err)

	assert.Contains(t, out, "Title: Dune\n")
	assert.Contains(t, out, "Year of Publication: 1965\n")
	assert.Contains(t, out, "Cover: default_image.jpg\n")
	assert.Contains(t, out, "Recommended Books")
	assert.Contains(t, out, "Title: Emma\n")
	assert.Contains(t, out, "Summary: An expanded summary.\n")
}

func TestAskCommand(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "ask", "Who wrote Emma?")
	require.NoError(t, err)
	assert.Equal(t, "An expanded summary.\n", out)
}

func TestLookupCommand_RequiresQuery(t *testing.T) {
	_, err := run(t, "lookup")
	assert.Error(t, err)
}

func TestPrintLookup_NoMatch(t *testing.T) {
	var buf bytes.Buffer
	printLookup(&buf, &service.Lookup{Query: "zzz"})
	assert.Equal(t, "No match for \"zzz\"\n", buf.String())
}

func TestPrintLookup_UnknownFields(t *testing.T) {
	var buf bytes.Buffer
	printLookup(&buf, &service.Lookup{
		Query:   "Dune",
		Primary: &domain.Book{Title: "Dune", Language: "xx"},
	})
	assert.Contains(t, buf.String(), "Language: Unknown Language\n")
	assert.Contains(t, buf.String(), "Category: Unknown Category\n")
	assert.NotContains(t, buf.String(), "Recommended Books")
}
