package fileserver

import (
	"bufio"
	"chatmesh/internal/logging"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const clientTimeout = 5 * time.Second

// Client is the thin dial-send-receive helper the chat REPL uses to talk to
// a Server; it holds no connection open between requests.
type Client struct {
	logger *logging.Logger
	addr   string
}

// NewClient returns a Client that talks to the file server at addr
// ("host:port").
func NewClient(logger *logging.Logger, addr string) *Client {
	return &Client{logger: logger, addr: addr}
}

// View fetches the full chat log.
func (c *Client) View() (string, error) {
	return c.roundTrip("VIEW")
}

// Post appends formatted (already timestamp-prefixed) text to the chat log.
func (c *Client) Post(formatted string) (string, error) {
	return c.roundTrip(fmt.Sprintf("POST %s", formatted))
}

func (c *Client) roundTrip(request string) (string, error) {
	reqID := uuid.NewString()
	log := c.logger.WithPostfix(reqID)

	conn, err := net.DialTimeout("tcp", c.addr, clientTimeout)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			log.Errorf("connection refused by file server at %s", c.addr)
			return connRefusedText, nil
		}
		log.Errorf("dialing file server at %s: %v", c.addr, err)
		return "", fmt.Errorf("fileserver: dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(clientTimeout))

	if _, err := fmt.Fprintln(conn, request); err != nil {
		return "", fmt.Errorf("fileserver: write request: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	var out []byte
	for scanner.Scan() {
		out = append(out, scanner.Bytes()...)
		out = append(out, '\n')
	}
	if err := scanner.Err(); err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			log.Errorf("connection to file server timed out")
			return requestTimeout, nil
		}
		return "", fmt.Errorf("fileserver: read response: %w", err)
	}

	log.Infof("round-tripped %q", request)
	return string(out), nil
}
