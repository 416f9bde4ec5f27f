//go:build linux

package overlay

import (
	"encoding/binary"
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMessageLayout(t *testing.T) {
	event := clientMessage(xproto.Window(0x4400007), xproto.Atom(301), netWMStateAdd, 302, 0, sourceNormalApp)
	raw := event.Bytes()
	require.Len(t, raw, 32)

	assert.Equal(t, byte(xproto.ClientMessage), raw[0])
	assert.Equal(t, byte(32), raw[1])
	assert.Equal(t, uint32(0x4400007), binary.LittleEndian.Uint32(raw[4:8]))
	assert.Equal(t, uint32(301), binary.LittleEndian.Uint32(raw[8:12]))

	words := make([]uint32, 5)
	for index := range words {
		offset := 12 + index*4
		words[index] = binary.LittleEndian.Uint32(raw[offset : offset+4])
	}
	assert.Equal(t, []uint32{netWMStateAdd, 302, 0, sourceNormalApp, 0}, words)
}
