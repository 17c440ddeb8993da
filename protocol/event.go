package protocol

// Event is the wire form of one kernel trace event. Type codes follow the
// kernel's trace event enumeration.
type Event struct {
	Type  uint8
	Slot  uint8
	Clock uint32
	Value uint32
}

// AppendEvent appends the wire encoding of one event to dst.
func AppendEvent(dst []byte, ev Event) []byte {
	dst = append(dst, ev.Type, ev.Slot)
	dst = AppendUint32(dst, ev.Clock)
	return AppendUint32(dst, ev.Value)
}

// DecodeEvent decodes one event from the front of *data, advancing the
// slice past the consumed bytes.
func DecodeEvent(data *[]byte) (Event, error) {
	if len(*data) < 2 {
		return Event{}, ErrTruncated
	}
	var ev Event
	ev.Type = (*data)[0]
	ev.Slot = (*data)[1]
	*data = (*data)[2:]
	clock, err := DecodeUint32(data)
	if err != nil {
		return Event{}, err
	}
	value, err := DecodeUint32(data)
	if err != nil {
		return Event{}, err
	}
	ev.Clock = clock
	ev.Value = value
	return ev, nil
}

// DecodeEvents decodes a full frame payload into events.
func DecodeEvents(payload []byte) ([]Event, error) {
	var events []Event
	for len(payload) > 0 {
		ev, err := DecodeEvent(&payload)
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}
