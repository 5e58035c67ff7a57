package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadProgress_Terminal(t *testing.T) {
	var out bytes.Buffer
	p := NewUploadProgress(&out, true)

	p.Update(0, 2000)
	p.Update(10, 2000) // same percentage, no redraw
	p.Update(1000, 2000)
	p.Update(2000, 2000)
	p.Finish()

	s := out.String()
	assert.Equal(t, 3, strings.Count(s, "\r"))
	assert.Contains(t, s, "2.0 kB / 2.0 kB")
	assert.True(t, strings.HasSuffix(s, "\n"))
}

func TestUploadProgress_NotTerminal(t *testing.T) {
	var out bytes.Buffer
	p := NewUploadProgress(&out, false)

	p.Update(500, 1000)
	p.Update(1000, 1000)
	assert.Empty(t, out.String())

	p.Finish()
	assert.Contains(t, out.String(), "Sent 1.0 kB")
}

func TestUploadProgress_NoUpdates(t *testing.T) {
	var out bytes.Buffer
	NewUploadProgress(&out, false).Finish()
	assert.Empty(t, out.String())
}
