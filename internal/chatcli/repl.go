// Package chatcli implements the line-oriented REPL that end users drive:
// view the shared log, post a message under mutual exclusion, or exit.
package chatcli

import (
	"chatmesh/internal/dme"
	"chatmesh/internal/fileserver"
	"chatmesh/internal/logging"
	"chatmesh/internal/utils/ioUtils"
	"fmt"
	"io"
	"strings"
	"time"
)

// timestampLayout mirrors the original client's "%d %b %I:%M%p" formatting.
const timestampLayout = "02 Jan 03:04PM"

// REPL drives the "view"/"post <text>"/"exit" command loop for one node.
type REPL struct {
	io     ioUtils.IOStream
	nodeID string
	node   *dme.Node
	files  *fileserver.Client
	logger *logging.Logger

	// hold simulates work performed while the critical section is held, as
	// the original client did unconditionally for 2 seconds. It defaults to
	// zero so tests and normal runs aren't slowed down.
	hold time.Duration

	now func() time.Time
}

// New constructs a REPL for nodeID, driving node for mutual exclusion and
// files for the shared log.
func New(io ioUtils.IOStream, nodeID string, node *dme.Node, files *fileserver.Client, logger *logging.Logger, hold time.Duration) *REPL {
	return &REPL{
		io:     io,
		nodeID: nodeID,
		node:   node,
		files:  files,
		logger: logger,
		hold:   hold,
		now:    time.Now,
	}
}

// Run reads commands until "exit" or the input stream ends.
func (r *REPL) Run() {
	r.io.Println(fmt.Sprintf("Welcome, %s.", r.nodeID))
	r.io.Println("Your commands are: 'view', 'post <message>', or 'exit'.")

	for {
		r.io.Print(fmt.Sprintf("%s_machine> ", r.nodeID))
		line, err := r.io.ReadLine()
		if err != nil {
			if err != io.EOF {
				r.logger.Errorf("reading command: %v", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case "view":
			r.handleView()
		case "post":
			if rest == "" {
				r.io.Println("Usage: post <your message here>")
				continue
			}
			r.handlePost(rest)
		case "exit":
			r.io.Println("Goodbye!")
			return
		default:
			r.io.Println(fmt.Sprintf("Unknown command: '%s'", cmd))
		}
	}
}

func (r *REPL) handleView() {
	r.logger.Infof("user issued view")
	r.io.Println("\nFetching chat log from server...")

	content, err := r.files.View()
	if err != nil {
		r.io.Println(fmt.Sprintf("ERROR: %v", err))
		return
	}

	r.io.Println("\n--- Chat Log ---")
	r.io.Println(content)
	r.io.Println("----------------")
}

func (r *REPL) handlePost(text string) {
	r.logger.Infof("user issued post: %.30s...", text)
	r.io.Println("Waiting for write access (DME)...")

	if err := r.node.Acquire(); err != nil {
		r.io.Println(fmt.Sprintf("ERROR: could not acquire write access: %v", err))
		return
	}
	defer r.node.Release()

	r.io.Println("Acquired lock. Posting to server...")

	formatted := fmt.Sprintf("%s %s: %s", r.now().Format(timestampLayout), r.nodeID, text)
	resp, err := r.files.Post(formatted)
	if err != nil {
		r.io.Println(fmt.Sprintf("ERROR: %v", err))
		return
	}
	r.io.Println(fmt.Sprintf("Server response: %s", resp))

	if r.hold > 0 {
		r.io.Println(fmt.Sprintf("Holding lock for %s to simulate work...", r.hold))
		time.Sleep(r.hold)
	}

	r.io.Println("Post complete. Lock released.")
}
