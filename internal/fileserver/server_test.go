package fileserver

import (
	"chatmesh/internal/logging"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
)

func startTestServer(t *testing.T) *Client {
	t.Helper()
	// Registered first so it runs last, after the server has been closed.
	t.Cleanup(leaktest.Check(t))

	logPath := filepath.Join(t.TempDir(), "chat_log.txt")
	logger := logging.NewStdLogger("test").WithLogLevel(logging.WARN)

	srv, err := NewServer(logger, "127.0.0.1:0", logPath)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })

	return NewClient(logger, srv.Addr().String())
}

func TestViewOnEmptyLogReturnsSentinel(t *testing.T) {
	c := startTestServer(t)

	got, err := c.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if strings.TrimSpace(got) != emptyLogSentinel {
		t.Fatalf("View() = %q, want %q", got, emptyLogSentinel)
	}
}

func TestPostThenView(t *testing.T) {
	c := startTestServer(t)

	resp, err := c.Post("03 Aug 10:00AM alice: hello")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if strings.TrimSpace(resp) != okPosted {
		t.Fatalf("Post() = %q, want %q", resp, okPosted)
	}

	got, err := c.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !strings.Contains(got, "alice: hello") {
		t.Fatalf("View() = %q, does not contain posted message", got)
	}
}

func TestPostWithoutPayloadIsRejected(t *testing.T) {
	c := startTestServer(t)

	resp, err := c.Post("")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if strings.TrimSpace(resp) != errNoPayload {
		t.Fatalf("Post(\"\") = %q, want %q", resp, errNoPayload)
	}
}

func TestConcurrentPostsAreSerializedByFileLock(t *testing.T) {
	c := startTestServer(t)

	const n = 20
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			c.Post(strings.Repeat("x", 1) + string(rune('a'+i%26)))
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for concurrent posts")
		}
	}

	got, err := c.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("got %d lines, want %d (a torn write would corrupt the count)", len(lines), n)
	}
}
