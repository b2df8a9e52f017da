package detection

import (
	"encoding/binary"

	"github.com/sigurn/crc16"
)

// CRC-16/ARC: polynomial 0x8005 reflected, zero init, no final xor.
var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// Checksum returns the CRC-16/ARC of the identifier's eight little-endian
// bytes.
func Checksum(id uint64) uint16 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	return crc16.Checksum(buf[:], crcTable)
}
