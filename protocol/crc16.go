package protocol

// CRC16 computes the frame checksum. Same polynomial arrangement the
// Klipper-family serial protocols use; the empty message checksums to
// 0xFFFF.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc)
		b ^= b << 4
		w := uint16(b)
		crc = (w<<8 | crc>>8) ^ (w >> 4) ^ (w << 3)
	}
	return crc
}
