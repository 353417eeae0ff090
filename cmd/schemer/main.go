package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"schemer/internal/adapters/editor"
	mcpadapter "schemer/internal/adapters/mcp"
	"schemer/internal/adapters/stores"
	"schemer/internal/adapters/tui"
	"schemer/internal/config"
)

const version = "0.1.0"

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	mcpAddr := flag.String("mcp-addr", "", "also serve MCP tools over streamable HTTP on this address")
	flag.Parse()

	if err := run(*configFlag, *mcpAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mcpAddr string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	// stdout belongs to the terminal UI, so logs go to a file or nowhere.
	logger, closeLog, err := cfg.Logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, closeStore, err := stores.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	interval, _ := cfg.AutosaveInterval()
	app := tui.NewApp(tui.Options{
		Store:        repo,
		Editor:       editor.NewOpener(),
		Locale:       cfg.Editor.Locale,
		ParentSource: cfg.Editor.ParentSource,
		EntityWidth:  cfg.Editor.EntityWidth,
		Autosave:     interval,
		Logger:       logger,
	})

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	if mcpAddr == "" {
		_, err := p.Run()
		return err
	}

	// Tools work on the editor's own diagram, one call per loop turn, and
	// autosave persists their changes.
	mcpServer := mcpadapter.NewServer("schemer", version, app.LiveStore(), tui.NewProgramSink(p),
		mcpadapter.WithAccess(tui.NewProgramAccess(p)))
	httpServer := server.NewStreamableHTTPServer(mcpServer)

	var g errgroup.Group
	g.Go(func() error {
		logger.Info("mcp listening", slog.String("addr", mcpAddr))
		if err := httpServer.Start(mcpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.Quit()
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := p.Run()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("mcp shutdown", slog.Any("error", serr))
		}
		return err
	})
	return g.Wait()
}
