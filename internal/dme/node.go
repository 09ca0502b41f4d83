package dme

import (
	"chatmesh/internal/logging"
	"errors"
	"fmt"
	"net"
)

// ErrClosed is returned by Acquire and Release once Close has been called.
var ErrClosed = errors.New("dme: node is closed")

// Node is the per-process handle on one node's DME state. It owns the
// listener, the outbound transport, and the engine goroutine that
// serializes every state transition.
type Node struct {
	cfg    Config
	logger *logging.Logger

	engine    *engine
	transport *transport
	listener  *listener

	closeCh chan struct{}
}

// NewNode validates cfg, binds its listening port, and starts the engine,
// transport, and listener goroutines. The returned Node is ready to
// Acquire/Release immediately.
func NewNode(cfg Config, logger *logging.Logger) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.ListenPort))
	if err != nil {
		return nil, fmt.Errorf("dme: listen on %s:%d: %w", cfg.ListenHost, cfg.ListenPort, err)
	}

	peerIDs := make([]NodeId, 0, len(cfg.Peers))
	for _, p := range cfg.Peers {
		peerIDs = append(peerIDs, p.NodeID)
	}
	if len(peerIDs) == 0 {
		logger.Warnf("node %s started with no peers; mutual exclusion is trivial", cfg.NodeID)
	}

	tr := newTransport(logger.WithPostfix("transport"), cfg.Peers)
	eng := newEngine(cfg.NodeID, peerIDs, logger.WithPostfix("engine"), tr.outboundInlet())
	lst := newListener(logger.WithPostfix("listener"), ln, eng.inbound)

	n := &Node{
		cfg:       cfg,
		logger:    logger,
		engine:    eng,
		transport: tr,
		listener:  lst,
		closeCh:   make(chan struct{}),
	}

	tr.start()
	lst.start()
	go eng.run()

	return n, nil
}

// Acquire blocks the calling goroutine until the critical section is held.
// Calling Acquire while already holding or awaiting the critical section is
// a caller bug and panics (see engine.handleAcquire).
func (n *Node) Acquire() error {
	ack := make(chan struct{})
	select {
	case n.engine.acquireRequests <- ack:
	case <-n.closeCh:
		return ErrClosed
	}

	select {
	case <-ack:
		return nil
	case <-n.closeCh:
		return ErrClosed
	}
}

// Release drops the critical section. Calling Release without a matching
// Acquire is a caller bug and panics (see engine.handleRelease).
func (n *Node) Release() error {
	ack := make(chan struct{})
	select {
	case n.engine.releaseRequests <- ack:
	case <-n.closeCh:
		return ErrClosed
	}

	select {
	case <-ack:
		return nil
	case <-n.closeCh:
		return ErrClosed
	}
}

// Close tears down the listener, transport, and engine goroutines. It does
// not wait for an in-flight Acquire to resolve; any caller still blocked in
// Acquire or Release observes ErrClosed.
func (n *Node) Close() error {
	select {
	case <-n.closeCh:
		return nil
	default:
		close(n.closeCh)
	}
	n.engine.close()
	n.listener.close()
	n.transport.close()
	return nil
}
