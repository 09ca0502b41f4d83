package dme

import (
	"bufio"
	"chatmesh/internal/logging"
	"errors"
	"net"

	"github.com/creachadair/taskgroup"
)

// listener accepts inbound peer connections and forwards parsed frames to
// the engine. One connection handler goroutine per accepted connection,
// supervised so a single bad peer can't take the accept loop down with it.
type listener struct {
	logger  *logging.Logger
	ln      net.Listener
	inbound chan<- inboundEvent
	tasks   *taskgroup.Group
	closeCh chan struct{}
}

func newListener(logger *logging.Logger, ln net.Listener, inbound chan<- inboundEvent) *listener {
	return &listener{
		logger:  logger,
		ln:      ln,
		inbound: inbound,
		tasks:   taskgroup.New(nil),
		closeCh: make(chan struct{}),
	}
}

func (l *listener) start() {
	l.tasks.Go(l.acceptLoop)
}

func (l *listener) acceptLoop() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.logger.Warnf("accept: %v", err)
			continue
		}
		l.tasks.Go(func() error {
			return l.handleConn(conn)
		})
	}
}

func (l *listener) handleConn(conn net.Conn) error {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		msg, err := parseLine(scanner.Text())
		if err != nil {
			l.logger.Warnf("malformed frame from %s: %v", conn.RemoteAddr(), err)
			return nil
		}

		select {
		case l.inbound <- inboundEvent{from: msg.Sender, msg: msg}:
		case <-l.closeCh:
			return nil
		}
	}
	return nil
}

func (l *listener) close() {
	select {
	case <-l.closeCh:
	default:
		close(l.closeCh)
	}
	l.ln.Close()
	l.tasks.Wait()
}
