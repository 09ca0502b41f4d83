package dme

import (
	"chatmesh/internal/logging"

	"github.com/creachadair/mds/value"
)

// inboundEvent is a parsed frame handed from the transport to the engine,
// tagged with the sender the message itself claims to be from.
type inboundEvent struct {
	from NodeId
	msg  wireMessage
}

// outgoingMessage is an "intent to send" enqueued by the engine and drained
// by the transport outside of the engine's critical section.
type outgoingMessage struct {
	dest NodeId
	msg  wireMessage
}

// engine is the single goroutine that owns every per-node DME variable:
// clock, state, myRequestKey, repliesReceived, deferred. This is the
// Go-idiomatic stand-in for "all state behind a mutex": rather than a lock
// guarding callback-driven mutation, one goroutine serializes all mutation
// by construction.
type engine struct {
	self   NodeId
	peers  []NodeId
	logger *logging.Logger
	clock  *clock

	state           CSState
	myRequestKey    RequestKey
	repliesReceived map[NodeId]struct{}
	deferred        map[NodeId]struct{}

	inbound         chan inboundEvent
	acquireRequests chan chan struct{}
	releaseRequests chan chan struct{}
	outbound        chan<- outgoingMessage

	pendingAcquire chan struct{}

	closeCh chan struct{}
}

func newEngine(self NodeId, peers []NodeId, logger *logging.Logger, outbound chan<- outgoingMessage) *engine {
	return &engine{
		self:            self,
		peers:           peers,
		logger:          logger,
		clock:           newClock(self),
		state:           Released,
		repliesReceived: make(map[NodeId]struct{}),
		deferred:        make(map[NodeId]struct{}),
		inbound:         make(chan inboundEvent, 64),
		acquireRequests: make(chan chan struct{}),
		releaseRequests: make(chan chan struct{}),
		outbound:        outbound,
		closeCh:         make(chan struct{}),
	}
}

// run is the engine's main loop. It must be started in its own goroutine and
// runs until close() is called.
func (e *engine) run() {
	for {
		select {
		case ev := <-e.inbound:
			e.handleInbound(ev)
		case ack := <-e.acquireRequests:
			e.handleAcquire(ack)
		case ack := <-e.releaseRequests:
			e.handleRelease(ack)
		case <-e.closeCh:
			return
		}
	}
}

func (e *engine) close() {
	select {
	case <-e.closeCh:
	default:
		close(e.closeCh)
	}
}

// handleAcquire broadcasts a REQUEST to every peer and records the caller's
// ack channel; the wait itself happens in Node.Acquire, blocked on that
// channel until enterHeld closes it.
func (e *engine) handleAcquire(ack chan struct{}) {
	if e.state != Released {
		panic("dme: acquire() called while not RELEASED (double-acquire is a caller bug)")
	}

	ts := e.clock.tickForSend()
	e.myRequestKey = RequestKey{Seqnum: ts.Seqnum, Pid: e.self}
	e.state = Requested
	e.repliesReceived = make(map[NodeId]struct{})
	e.pendingAcquire = ack

	e.logger.Infof("acquire: broadcasting REQUEST(%d,%s) to %d peers", ts.Seqnum, e.self, len(e.peers))
	for _, p := range e.peers {
		e.enqueueSend(p, wireMessage{Verb: requestVerb, TS: uint64(ts.Seqnum), Sender: e.self})
	}

	if len(e.peers) == 0 {
		e.enterHeld()
	}
}

// handleRelease drops the critical section and flushes every deferred REPLY.
func (e *engine) handleRelease(ack chan struct{}) {
	if e.state != Held {
		panic("dme: release() called while not HELD (release without acquire is a caller bug)")
	}

	e.state = Released
	snapshot := e.deferred
	e.deferred = make(map[NodeId]struct{})
	e.myRequestKey = RequestKey{}

	e.logger.Infof("release: flushing %d deferred REPLYs", len(snapshot))
	for peer := range snapshot {
		ts := e.clock.tickForSend()
		e.enqueueSend(peer, wireMessage{Verb: replyVerb, TS: uint64(ts.Seqnum), Sender: e.self})
	}

	close(ack)
}

func (e *engine) handleInbound(ev inboundEvent) {
	e.clock.observe(ev.msg.TS)

	if ev.msg.Verb == requestVerb {
		e.handleRequest(ev.from, ev.msg)
	} else {
		e.handleReply(ev.from)
	}
}

// handleRequest decides whether to reply immediately or defer, based on
// whose request has priority under the (timestamp, node_id) order.
func (e *engine) handleRequest(sender NodeId, msg wireMessage) {
	incomingKey := RequestKey{Seqnum: uint32(msg.TS), Pid: sender}

	defer_ := e.state == Held || (e.state == Requested && e.myRequestKey.LessThan(incomingKey))

	verb := value.Cond(defer_, "DEFER", "REPLY")
	e.logger.Infof("REQUEST from %s (ts=%d, key=%v): %s", sender, msg.TS, incomingKey, verb)

	if defer_ {
		e.deferred[sender] = struct{}{}
		return
	}

	ts := e.clock.tickForSend()
	e.enqueueSend(sender, wireMessage{Verb: replyVerb, TS: uint64(ts.Seqnum), Sender: e.self})
}

// handleReply records a REPLY toward the current request, if one is in flight.
func (e *engine) handleReply(sender NodeId) {
	if e.state != Requested {
		e.logger.Warnf("protocol anomaly: REPLY from %s while state=%s; discarding", sender, e.state)
		return
	}

	e.repliesReceived[sender] = struct{}{}
	if len(e.repliesReceived) == len(e.peers) {
		e.enterHeld()
	}
}

func (e *engine) enterHeld() {
	e.state = Held
	if e.pendingAcquire != nil {
		close(e.pendingAcquire)
		e.pendingAcquire = nil
	}
}

// enqueueSend hands an outbound message off to the transport without
// blocking on the network: sends must never happen while the state
// goroutine would otherwise be blocked on a slow peer.
func (e *engine) enqueueSend(dest NodeId, msg wireMessage) {
	select {
	case e.outbound <- outgoingMessage{dest: dest, msg: msg}:
	case <-e.closeCh:
	}
}
