package main

import (
	"chatmesh/internal/chatcli"
	"chatmesh/internal/dme"
	"chatmesh/internal/fileserver"
	"chatmesh/internal/logging"
	"chatmesh/internal/transport"
	"chatmesh/internal/utils/ioUtils"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func usage() {
	fmt.Println("Usage: chatnode <node_id> <dme_port> --server <host:port> [--peer <id:host:port> ...] [--hold <duration>]")
}

func main() {
	logger := logging.NewStdLogger("main")

	if len(os.Args) < 4 {
		usage()
		os.Exit(1)
	}

	nodeID := os.Args[1]
	dmePort, err := strconv.ParseUint(os.Args[2], 10, 16)
	if err != nil {
		logger.Errorf("invalid dme_port %q: %v", os.Args[2], err)
		os.Exit(1)
	}

	var serverAddr string
	var peers []dme.PeerDescriptor
	var hold time.Duration

	args := os.Args[3:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--server":
			i++
			if i >= len(args) {
				logger.Errorf("--server requires a host:port argument")
				os.Exit(1)
			}
			serverAddr = args[i]
		case "--peer":
			i++
			if i >= len(args) {
				logger.Errorf("--peer requires an id:host:port argument")
				os.Exit(1)
			}
			peer, err := parsePeer(args[i])
			if err != nil {
				logger.Errorf("invalid --peer %q: %v", args[i], err)
				os.Exit(1)
			}
			peers = append(peers, peer)
		case "--hold":
			i++
			if i >= len(args) {
				logger.Errorf("--hold requires a duration argument")
				os.Exit(1)
			}
			hold, err = time.ParseDuration(args[i])
			if err != nil {
				logger.Errorf("invalid --hold %q: %v", args[i], err)
				os.Exit(1)
			}
		default:
			logger.Errorf("unrecognized argument %q", args[i])
			usage()
			os.Exit(1)
		}
	}

	if serverAddr == "" {
		logger.Errorf("--server is required")
		usage()
		os.Exit(1)
	}
	if _, err := transport.NewAddress(serverAddr); err != nil {
		logger.Errorf("invalid --server address %q: %v", serverAddr, err)
		os.Exit(1)
	}

	logger.Infof("starting chat app for %s", nodeID)
	logger.Infof("dme listener will run on port %d", dmePort)
	logger.Infof("file server: %s", serverAddr)
	logger.Infof("peers: %v", peers)

	node, err := dme.NewNode(dme.Config{
		NodeID:     dme.NodeId(nodeID),
		ListenHost: "0.0.0.0",
		ListenPort: uint16(dmePort),
		Peers:      peers,
	}, logger.WithPostfix("dme"))
	if err != nil {
		logger.Errorf("starting dme node: %v", err)
		os.Exit(1)
	}
	defer node.Close()

	files := fileserver.NewClient(logger.WithPostfix("fileserver-client"), serverAddr)

	repl := chatcli.New(ioUtils.NewStdStream(), nodeID, node, files, logger.WithPostfix("cli"), hold)
	repl.Run()
}

func parsePeer(s string) (dme.PeerDescriptor, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return dme.PeerDescriptor{}, fmt.Errorf("expected id:host:port, got %q", s)
	}
	port, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return dme.PeerDescriptor{}, fmt.Errorf("invalid port %q: %w", parts[2], err)
	}
	return dme.PeerDescriptor{NodeID: dme.NodeId(parts[0]), Host: parts[1], Port: uint16(port)}, nil
}
