package tilemap

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTrip(t *testing.T) {
	cells := []Cell{
		{X: 0, Y: 0, Source: 0, AtlasX: 0, AtlasY: 0, Alt: 0},
		{X: -3, Y: 12, Source: 1, AtlasX: 9, AtlasY: 2, Alt: 0},
		{X: 200, Y: -40, Source: 3, AtlasX: 0, AtlasY: 0, Alt: 7},
		{X: -32768, Y: 32767, Source: -1, AtlasX: -2, AtlasY: 15, Alt: 1},
	}

	got, err := Decode(Encode(cells))
	require.NoError(t, err)
	assert.Equal(t, cells, got)
}

func TestDecodeLengths(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		cells int
	}{
		{"empty", nil, 0},
		{"header_only_short", []byte{0}, 0},
		{"header_only", []byte{0, 0}, 0},
		{"one_group", EncodeBytes([]Cell{{X: 1}}), 1},
		{"three_groups", EncodeBytes(make([]Cell, 3)), 3},
		{"trailing_bytes", append(EncodeBytes(make([]Cell, 2)), 1, 2, 3), 2},
		{"trailing_partial_group", append(EncodeBytes(make([]Cell, 2)), 0, 0, 0, 0, 0, 0, 0, 0), 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DecodeBytes(c.data)
			assert.Len(t, got, c.cells)
			if len(c.data) >= headerSize && (len(c.data)-headerSize)%12 == 0 {
				assert.Len(t, got, (len(c.data)-headerSize)/12)
			}
		})
	}
}

func TestDecodeNegativePacking(t *testing.T) {
	// x=-1 (0xFFFF), y=2
	raw := []byte{0, 0, 0xFF, 0xFF, 0x02, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	got, err := Decode(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, -1, got[0].X)
	assert.Equal(t, 2, got[0].Y)
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("not base64!!")
	assert.Error(t, err)
}
