package monitor

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickos/protocol"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func encodeEvents(t *testing.T, events ...protocol.Event) []byte {
	t.Helper()
	var payload []byte
	for _, ev := range events {
		payload = protocol.AppendEvent(payload, ev)
	}
	frame, err := protocol.EncodeFrame(payload)
	require.NoError(t, err)
	return frame
}

func TestMonitorCountsFramesAndEvents(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeEvents(t,
		protocol.Event{Type: 1, Slot: 0, Clock: 0, Value: 16},
		protocol.Event{Type: 3, Slot: 1, Clock: 5, Value: 0},
	)...)
	stream = append(stream, encodeEvents(t,
		protocol.Event{Type: 7, Slot: 1, Clock: 9, Value: 77},
	)...)

	m := New(bytes.NewReader(stream), quietLogger())
	require.NoError(t, m.Run())
	assert.Equal(t, uint64(2), m.Frames)
	assert.Equal(t, uint64(3), m.Events)
}

func TestMonitorSurvivesLeadingGarbage(t *testing.T) {
	stream := []byte{0x00, 0xAB, protocol.FrameSync}
	stream = append(stream, encodeEvents(t,
		protocol.Event{Type: 2, Slot: 4, Clock: 1, Value: 8},
	)...)

	m := New(bytes.NewReader(stream), quietLogger())
	require.NoError(t, m.Run())
	assert.Equal(t, uint64(1), m.Frames)
	assert.Equal(t, uint64(1), m.Events)
}

func TestMonitorEmptyStream(t *testing.T) {
	m := New(bytes.NewReader(nil), quietLogger())
	require.NoError(t, m.Run())
	assert.Zero(t, m.Frames)
	assert.Zero(t, m.Events)
}
