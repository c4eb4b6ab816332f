package tilemap

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// headerSize is the format header preceding the packed cells.
const headerSize = 2

// Cell is one placed tile from a packed tile-map payload.
type Cell struct {
	X, Y   int
	Source int
	AtlasX int
	AtlasY int
	Alt    int
}

// Decode decodes a base64 packed payload into cells.
func Decode(encoded string) ([]Cell, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("tilemap: decode base64: %w", err)
	}
	return DecodeBytes(data), nil
}

// DecodeBytes decodes a raw packed payload. Trailing bytes that do not form a
// complete 32-bit value, and trailing values that do not form a complete
// 3-value group, are dropped.
func DecodeBytes(data []byte) []Cell {
	if len(data) < headerSize {
		return nil
	}
	data = data[headerSize:]
	n := len(data) / 4
	ints := make([]int32, n)
	for i := range ints {
		ints[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}

	cells := make([]Cell, 0, n/3)
	for i := 0; i+2 < n; i += 3 {
		x, y := split16(ints[i])
		source, ax := split16(ints[i+1])
		ay, alt := split16(ints[i+2])
		cells = append(cells, Cell{X: x, Y: y, Source: source, AtlasX: ax, AtlasY: ay, Alt: alt})
	}
	return cells
}

func split16(v int32) (int, int) {
	u := uint32(v)
	return signed16(u & 0xFFFF), signed16(u >> 16)
}

func signed16(v uint32) int {
	if v >= 0x8000 {
		return int(v) - 0x10000
	}
	return int(v)
}
