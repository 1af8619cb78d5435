package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	p.Warn("Cannot copy 'README.md'. It does not exist.")
	p.Success("Copied 'LICENSE'")
	p.Begin(`"Linux"`)
	p.End(`"Linux"`)

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "plain printer must not emit escape sequences")
	assert.Contains(t, out, "[!] Cannot copy 'README.md'. It does not exist.")
	assert.Contains(t, out, `========================BEGIN "Linux"========================`)
	assert.Contains(t, out, `========================END "Linux"========================`)
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	NewPlain(&buf).Banner("v0.3.0")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	for _, l := range lines {
		assert.Len(t, l, 13, "banner line %q must keep the box width", l)
	}
	assert.Contains(t, lines[2], "v0.3.0")
}
