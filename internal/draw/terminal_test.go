package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriter_OffsetAndFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)

	cw.WriteAt(1, 1, "hi")
	assert.Zero(t, out.Len(), "nothing is written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3Hhi", out.String())
	assert.Zero(t, cw.Len())

	out.Reset()
	cw.SetOffset(0, 0)
	cw.WriteColorAt(5, 4, "x", Red)
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[4;5H"+Red.FG()+"x"+ColorReset, out.String())
}

func TestChunkWriter_WriteCentered(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	col := cw.WriteCentered(10, 2, "ÄBCD")
	assert.Equal(t, 8, col, "centering counts runes, not bytes")
}

func TestChunkWriter_LargeFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	payload := strings.Repeat("x", 3*maxChunkSize+17)
	cw.WriteString(payload)

	require.NoError(t, cw.Flush())
	assert.Equal(t, payload, out.String())
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                   string
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{"fits", 100, 40, 100, 40, 0, 0},
		{"too wide", 200, 40, 160, 40, 20, 0},
		{"too tall", 100, 81, 100, 60, 0, 10},
		{"both", 300, 100, 160, 60, 70, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := ClampTermSize(tt.w, tt.h, 160, 60)
			assert.Equal(t, tt.rw, rw)
			assert.Equal(t, tt.rh, rh)
			assert.Equal(t, tt.offCol, oc)
			assert.Equal(t, tt.offRow, or)
		})
	}
}
