package fileserver

import (
	"bufio"
	"chatmesh/internal/logging"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/creachadair/taskgroup"
	"github.com/google/uuid"
)

// Server hosts the append-only chat log over a line-oriented TCP protocol:
// "VIEW\n" returns the whole log, "POST <text>\n" appends a line and
// acknowledges it. A mutex guards the log file so a VIEW never observes a
// write in progress.
type Server struct {
	logger  *logging.Logger
	logPath string

	mu sync.Mutex

	ln    net.Listener
	tasks *taskgroup.Group
}

// NewServer binds addr and returns a Server ready to Serve. logPath is the
// on-disk file backing the chat log; it is created on first POST if absent.
func NewServer(logger *logging.Logger, addr string, logPath string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("fileserver: listen on %s: %w", addr, err)
	}
	return &Server{
		logger:  logger,
		logPath: logPath,
		ln:      ln,
		tasks:   taskgroup.New(nil),
	}, nil
}

// Addr returns the address the server is actually listening on, useful when
// NewServer was given a ":0" ephemeral port.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until Close is called.
func (s *Server) Serve() error {
	s.logger.Infof("file server listening on %s", s.ln.Addr())
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.tasks.Wait()
				return nil
			}
			return err
		}
		s.tasks.Go(func() error {
			s.handleConn(conn)
			return nil
		})
	}
}

// Close stops accepting new connections. It does not wait for in-flight
// ones; Serve waits for them before it returns.
func (s *Server) Close() error {
	return s.ln.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	reqID := uuid.NewString()
	defer conn.Close()

	log := s.logger.WithPostfix(reqID)
	log.Infof("accepted connection from %s", conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		log.Warnf("no data received from %s", conn.RemoteAddr())
		return
	}

	line := scanner.Text()
	verb, payload, _ := strings.Cut(line, " ")

	switch verb {
	case "VIEW":
		log.Infof("processing VIEW")
		fmt.Fprint(conn, s.view())
	case "POST":
		if payload == "" {
			log.Warnf("received POST with no payload")
			fmt.Fprint(conn, errNoPayload)
			return
		}
		log.Infof("processing POST: %.30s...", payload)
		s.post(payload)
		fmt.Fprint(conn, okPosted)
	default:
		log.Warnf("unknown command %q", verb)
		fmt.Fprint(conn, errUnknownVerb)
	}
}

func (s *Server) view() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.logPath)
	if errors.Is(err, os.ErrNotExist) {
		return emptyLogSentinel
	}
	if err != nil || len(content) == 0 {
		return noMessagesYet
	}
	return string(content)
}

func (s *Server) post(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintln(f, text)
	return err
}
