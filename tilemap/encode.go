package tilemap

import (
	"encoding/base64"
	"encoding/binary"
)

// Encode packs cells with the same layout Decode reads, header included.
func Encode(cells []Cell) string {
	return base64.StdEncoding.EncodeToString(EncodeBytes(cells))
}

func EncodeBytes(cells []Cell) []byte {
	buf := make([]byte, headerSize, headerSize+len(cells)*12)
	for _, c := range cells {
		buf = binary.LittleEndian.AppendUint32(buf, pack16(c.X, c.Y))
		buf = binary.LittleEndian.AppendUint32(buf, pack16(c.Source, c.AtlasX))
		buf = binary.LittleEndian.AppendUint32(buf, pack16(c.AtlasY, c.Alt))
	}
	return buf
}

func pack16(lo, hi int) uint32 {
	return uint32(uint16(int16(lo))) | uint32(uint16(int16(hi)))<<16
}
