package cli

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestTokenCommand(t *testing.T) {
	tok := strings.TrimSpace(run(t, "token"))
	assert.Len(t, tok, 64)
	_, err := hex.DecodeString(tok)
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, run(t, "version"), "inbox ")
}

func TestSeedCommandWithMemoryStore(t *testing.T) {
	t.Setenv("INBOX_DB_DRIVER", "memory")
	t.Setenv("INBOX_LOG_LEVEL", "error")
	t.Setenv("INBOX_PRETTY_LOG", "false")

	assert.Contains(t, run(t, "seed"), "3 sample record(s) created")
}
