package main

import (
	"chatmesh/internal/fileserver"
	"chatmesh/internal/logging"
	"fmt"
	"os"
)

func main() {
	logger := logging.NewStdLogger("fileserver")

	addr := "0.0.0.0:50000"
	logPath := "chat_log.txt"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	if len(os.Args) > 2 {
		logPath = os.Args[2]
	}

	srv, err := fileserver.NewServer(logger, addr, logPath)
	if err != nil {
		logger.Errorf("starting file server: %v", err)
		os.Exit(1)
	}

	logger.Infof("storing chat logs in %s", logPath)
	fmt.Printf("File server listening on %s\n", addr)
	if err := srv.Serve(); err != nil {
		logger.Errorf("serve: %v", err)
		os.Exit(1)
	}
}
