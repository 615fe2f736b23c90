package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/render"
	"github.com/MrSnakeDoc/inbox/internal/store"
	"github.com/MrSnakeDoc/inbox/internal/store/memory"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeFile(t, `---
samples:
  - title: Reading list
    content_md: "- [ ] *Dune*"
    url: https://example.com/books
    from_source: 4
  - title: Plain
    content_md: just text
`)

	samples, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, Sample{Title: "Reading list", Markdown: "- [ ] *Dune*", URL: "https://example.com/books", Source: 4}, samples[0])
	assert.Equal(t, 0, samples[1].Source)
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	t.Setenv("INBOX_SAMPLE_URL", "https://example.com/from-env")
	path := writeFile(t, `samples:
  - title: Env
    content_md: x
    url: {{ INBOX_SAMPLE_URL }}
`)

	samples, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/from-env", samples[0].URL)
}

func TestLoaderErrors(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/samples.yaml").Load()
	assert.Error(t, err)

	_, err = NewLoader(writeFile(t, "samples: []\n")).Load()
	assert.Error(t, err)

	_, err = NewLoader(writeFile(t, "samples: [\n")).Load()
	assert.Error(t, err)
}

func TestExpandTemplateVariables(t *testing.T) {
	t.Setenv("INBOX_SAMPLE_TITLE", "hello")
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "title: {{INBOX_SAMPLE_TITLE}}", "title: hello"},
		{"unset variable", "url: {{INBOX_UNSET_FOR_TEST}}", "url: "},
		{"no variables", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(expandTemplateVariables([]byte(tt.input))))
		})
	}
}

func newRecords() *store.Records {
	return store.NewRecords(memory.New(), render.New(render.DefaultDescriptionMax), logger.Nop())
}

func TestRunSeedsEmptyStoreOnce(t *testing.T) {
	ctx := context.Background()
	records := newRecords()

	n, err := Run(ctx, records, Defaults(), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := records.List(ctx, domain.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalRecords)

	n, err = Run(ctx, records, Defaults(), logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := records.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestRunStopsOnInvalidSample(t *testing.T) {
	samples := []Sample{{Title: "ok", Markdown: "x"}, {Title: "", Markdown: "x"}}

	n, err := Run(context.Background(), newRecords(), samples, logger.Nop())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, domain.IsValidation(err))
}
