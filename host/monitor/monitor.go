// Package monitor consumes a tickos trace stream and renders each kernel
// event as a structured log line.
package monitor

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"tickos/core"
	"tickos/protocol"
)

// Monitor decodes trace frames from a stream and logs the events.
type Monitor struct {
	r   io.Reader
	log *logrus.Logger
	dec *protocol.Decoder

	// Frames counts CRC-valid frames seen so far.
	Frames uint64
	// Events counts decoded events seen so far.
	Events uint64
}

// New creates a monitor over a raw trace stream.
func New(r io.Reader, log *logrus.Logger) *Monitor {
	if log == nil {
		log = logrus.New()
	}
	return &Monitor{
		r:   r,
		log: log,
		dec: protocol.NewDecoder(),
	}
}

// Run reads the stream until EOF or a read error, logging every decoded
// event. Timeouts surfacing as zero-byte reads are tolerated.
func (m *Monitor) Run() error {
	buf := make([]byte, 256)
	for {
		n, err := m.r.Read(buf)
		if n > 0 {
			m.dec.Feed(buf[:n])
			m.drain()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.drain()
				return nil
			}
			return err
		}
	}
}

func (m *Monitor) drain() {
	for {
		payload, ok := m.dec.Next()
		if !ok {
			return
		}
		m.Frames++
		events, err := protocol.DecodeEvents(payload)
		if err != nil {
			m.log.WithError(err).Warn("bad event payload")
		}
		for _, ev := range events {
			m.Events++
			m.log.WithFields(logrus.Fields{
				"clock": ev.Clock,
				"slot":  ev.Slot,
				"value": ev.Value,
			}).Info(core.TraceEventType(ev.Type).String())
		}
	}
}
