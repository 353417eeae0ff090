package main

import (
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "schemer/internal/adapters/mcp"
	"schemer/internal/adapters/stores"
	"schemer/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	storeFlag := flag.String("store", "", "diagram path, overrides store.path")
	flag.Parse()

	cfg, err := config.LoadFile(*configFlag)
	if err != nil {
		log.Fatalf("schemer-mcp: %v", err)
	}
	if *storeFlag != "" {
		cfg.Store.Path = *storeFlag
	}
	// stdout carries the MCP protocol.
	logger, closeLog, err := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatalf("schemer-mcp: %v", err)
	}
	defer closeLog()

	repo, closeStore, err := stores.Open(cfg.Store)
	if err != nil {
		log.Fatalf("schemer-mcp: %v", err)
	}
	defer closeStore()

	mcpServer := mcpadapter.NewServer("schemer-mcp", "0.1.0", repo, nil)

	logger.Debug("serving mcp over stdio", "backend", cfg.Store.Backend)
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("schemer-mcp: %v", err)
	}
}
