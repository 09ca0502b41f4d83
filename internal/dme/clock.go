package dme

import "chatmesh/internal/timestamps"

// clock is the per-node Lamport logical clock. It is not goroutine-safe;
// every call is made from the single engine goroutine that owns a node's
// state (see engine.go).
type clock struct {
	handler *timestamps.Handler
}

func newClock(self NodeId) *clock {
	return &clock{handler: timestamps.NewLamportTimestampHandler(self, 0)}
}

// tickForSend increments the clock for a locally originated send event and
// returns the new value.
func (c *clock) tickForSend() timestamps.Timestamp {
	return c.handler.IncrementTimestamp()
}

// observe applies the Lamport receive rule: clock <- max(clock, incoming) + 1.
func (c *clock) observe(incoming uint64) {
	c.handler.UpdateTimestamp(timestamps.Timestamp{Seqnum: uint32(incoming)})
}

// read returns the current clock value without mutating it.
func (c *clock) read() timestamps.Timestamp {
	return c.handler.GetTimestamp()
}
