package protocol

import "errors"

// Frame layout: one length byte covering the whole frame, the payload,
// a big-endian CRC16 over length+payload, and a trailing sync byte. The
// sync byte lets a decoder that joins mid-stream or hits corruption skip
// forward to the next frame boundary.
const (
	FrameHeaderSize  = 1
	FrameTrailerSize = 3 // CRC16 + sync
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 96
	FrameSync        = 0x7E
)

// ErrFrameTooLarge reports a payload that does not fit in one frame.
var ErrFrameTooLarge = errors.New("payload exceeds maximum frame size")

// MaxPayload is the largest payload EncodeFrame accepts.
const MaxPayload = FrameLengthMax - FrameHeaderSize - FrameTrailerSize

// EncodeFrame wraps a payload in a complete wire frame.
func EncodeFrame(payload []byte) ([]byte, error) {
	n := len(payload) + FrameHeaderSize + FrameTrailerSize
	if n > FrameLengthMax {
		return nil, ErrFrameTooLarge
	}
	frame := make([]byte, 0, n)
	frame = append(frame, byte(n))
	frame = append(frame, payload...)
	crc := CRC16(frame)
	frame = append(frame, byte(crc>>8), byte(crc))
	return append(frame, FrameSync), nil
}

// Decoder incrementally extracts frame payloads from a byte stream.
// Corrupt input drops synchronization; the decoder then discards bytes up
// to the next sync byte before resuming.
type Decoder struct {
	buf    []byte
	synced bool
}

// NewDecoder returns a decoder that assumes the stream starts on a frame
// boundary.
func NewDecoder() *Decoder {
	return &Decoder{synced: true}
}

// Feed appends raw stream bytes to the decoder.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next returns the payload of the next complete, CRC-valid frame, or
// false when the buffered data holds none. Invalid data is skipped.
func (d *Decoder) Next() ([]byte, bool) {
	for {
		if !d.synced {
			i := indexByte(d.buf, FrameSync)
			if i < 0 {
				d.buf = d.buf[:0]
				return nil, false
			}
			d.buf = d.buf[i+1:]
			d.synced = true
		}

		// Skip boundary sync bytes between frames.
		for len(d.buf) > 0 && d.buf[0] == FrameSync {
			d.buf = d.buf[1:]
		}
		if len(d.buf) < FrameLengthMin {
			return nil, false
		}

		n := int(d.buf[0])
		if n < FrameLengthMin || n > FrameLengthMax {
			d.synced = false
			continue
		}
		if len(d.buf) < n {
			return nil, false
		}
		if d.buf[n-1] != FrameSync {
			d.synced = false
			continue
		}
		want := uint16(d.buf[n-3])<<8 | uint16(d.buf[n-2])
		if CRC16(d.buf[:n-FrameTrailerSize]) != want {
			d.synced = false
			continue
		}

		payload := make([]byte, n-FrameHeaderSize-FrameTrailerSize)
		copy(payload, d.buf[FrameHeaderSize:n-FrameTrailerSize])
		d.buf = d.buf[n:]
		return payload, true
	}
}

func indexByte(p []byte, c byte) int {
	for i, b := range p {
		if b == c {
			return i
		}
	}
	return -1
}
