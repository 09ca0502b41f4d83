package dme

import (
	"chatmesh/internal/logging"
	"chatmesh/internal/utils"
	"chatmesh/internal/utils/bufchan"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/creachadair/taskgroup"
)

const dialTimeout = 5 * time.Second

// peerWorker delivers every outbound message to one peer, in the order it
// was enqueued, over a lazily dialed and cached connection. One worker per
// peer keeps delivery FIFO to that peer while letting a slow or unreachable
// peer's retries never delay deliveries to any other peer.
type peerWorker struct {
	logger *logging.Logger
	peer   PeerDescriptor
	queue  chan outgoingMessage

	mu   sync.Mutex
	conn net.Conn
}

func newPeerWorker(logger *logging.Logger, peer PeerDescriptor) *peerWorker {
	return &peerWorker{
		logger: logger,
		peer:   peer,
		queue:  make(chan outgoingMessage, 64),
	}
}

func (w *peerWorker) run() {
	for msg := range w.queue {
		w.deliver(msg)
	}
}

func (w *peerWorker) deliver(msg outgoingMessage) {
	err := utils.RetryWithCutoff(w.logger, context.Background(), func(try int) error {
		conn, err := w.getConn()
		if err != nil {
			return fmt.Errorf("dial %s: %w", w.peer, err)
		}
		if _, err := conn.Write([]byte(msg.msg.encode())); err != nil {
			w.dropConn()
			return fmt.Errorf("write to %s: %w", w.peer, err)
		}
		return nil
	})
	if err != nil {
		w.logger.Errorf("giving up delivering %v to %s: %v", msg.msg, w.peer, err)
	}
}

func (w *peerWorker) getConn() (net.Conn, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		return w.conn, nil
	}
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", w.peer.Host, w.peer.Port), dialTimeout)
	if err != nil {
		return nil, err
	}
	w.conn = conn
	return conn, nil
}

func (w *peerWorker) dropConn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

func (w *peerWorker) close() {
	close(w.queue)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

// transport owns the outbound half of the peer network: one dispatch
// goroutine reads the engine's single outbound queue and routes each
// message to a per-peer worker (supervised by taskgroup), so peers never
// block one another's deliveries.
type transport struct {
	logger *logging.Logger
	peers  map[NodeId]PeerDescriptor

	mu      sync.Mutex
	workers map[NodeId]*peerWorker

	queue        *bufchan.BufferedChan[outgoingMessage]
	dispatchDone chan struct{}
	tasks        *taskgroup.Group
}

func newTransport(logger *logging.Logger, peers []PeerDescriptor) *transport {
	byID := make(map[NodeId]PeerDescriptor, len(peers))
	for _, p := range peers {
		byID[p.NodeID] = p
	}
	return &transport{
		logger:       logger,
		peers:        byID,
		workers:      make(map[NodeId]*peerWorker),
		queue:        bufchan.NewBufferedChan[outgoingMessage](),
		dispatchDone: make(chan struct{}),
		tasks:        taskgroup.New(nil),
	}
}

func (t *transport) outboundInlet() chan<- outgoingMessage {
	return t.queue.Inlet()
}

// start runs the dispatch loop that routes each outbound message to its
// destination peer's worker, starting that worker on first use.
func (t *transport) start() {
	go func() {
		defer close(t.dispatchDone)
		for msg := range t.queue.Outlet() {
			t.dispatch(msg)
		}
	}()
}

func (t *transport) dispatch(msg outgoingMessage) {
	peer, ok := t.peers[msg.dest]
	if !ok {
		t.logger.Errorf("no peer descriptor for %s, dropping %v", msg.dest, msg.msg)
		return
	}

	w := t.workerFor(peer)
	w.queue <- msg
}

func (t *transport) workerFor(peer PeerDescriptor) *peerWorker {
	t.mu.Lock()
	defer t.mu.Unlock()

	if w, ok := t.workers[peer.NodeID]; ok {
		return w
	}
	w := newPeerWorker(t.logger.WithPostfix(string(peer.NodeID)), peer)
	t.workers[peer.NodeID] = w
	t.tasks.Go(func() error {
		w.run()
		return nil
	})
	return w
}

func (t *transport) close() {
	t.queue.Close()
	<-t.dispatchDone // no more sends to any worker queue past this point

	t.mu.Lock()
	for _, w := range t.workers {
		w.close()
	}
	t.mu.Unlock()

	t.tasks.Wait()
}
