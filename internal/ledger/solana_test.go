package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMemoPrefix(t *testing.T) {
	cases := map[string]string{
		"[32] STEALTH:abc":     "STEALTH:abc",
		"[0] ":                 "",
		"STEALTH:abc":          "STEALTH:abc",
		"[malformed STEALTH":   "[malformed STEALTH",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, stripMemoPrefix(in))
	}
}
