// Package protocol implements the tickos trace stream wire format: kernel
// trace events packed as VLQ varints into CRC16-protected, sync-byte
// delimited frames. The stream is one-way (kernel to host monitor), so
// there is no sequencing or acknowledgement layer.
package protocol

import "errors"

var (
	// ErrTruncated reports a VLQ cut off by the end of the buffer.
	ErrTruncated = errors.New("truncated VLQ encoding")

	// ErrMalformed reports a VLQ longer than a uint32 can need.
	ErrMalformed = errors.New("malformed VLQ encoding")
)

// AppendUint32 appends the VLQ encoding of v to dst and returns the
// extended slice. Values encode big-endian in 7-bit groups with the high
// bit marking continuation; 0..127 take a single byte.
func AppendUint32(dst []byte, v uint32) []byte {
	started := false
	for shift := uint(28); shift > 0; shift -= 7 {
		group := byte(v>>shift) & 0x7F
		if started || group != 0 {
			dst = append(dst, group|0x80)
			started = true
		}
	}
	return append(dst, byte(v)&0x7F)
}

// DecodeUint32 decodes one VLQ value from the front of *data, advancing
// the slice past the consumed bytes.
func DecodeUint32(data *[]byte) (uint32, error) {
	var v uint32
	for i := 0; ; i++ {
		if len(*data) == 0 {
			return 0, ErrTruncated
		}
		if i == 5 {
			return 0, ErrMalformed
		}
		c := (*data)[0]
		*data = (*data)[1:]
		v = v<<7 | uint32(c&0x7F)
		if c&0x80 == 0 {
			return v, nil
		}
	}
}
