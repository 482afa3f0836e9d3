package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"codemindmap/internal/adapters/editor"
	"codemindmap/internal/adapters/filesystem"
	mcpadapter "codemindmap/internal/adapters/mcp"
	"codemindmap/internal/adapters/sqlite"
	"codemindmap/internal/application"
	"codemindmap/internal/config"
	"codemindmap/internal/ports"
)

func main() {
	defaultHome, _ := config.AppDataRoot()
	homeFlag := flag.String("home", defaultHome, "app-data directory")
	configFlag := flag.String("config", "", "config file (default: <home>/config.yaml)")
	flag.Parse()

	// stdout is the MCP channel
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	path := *configFlag
	if path == "" {
		path = filepath.Join(*homeFlag, config.FileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if level, err := config.ParseLevel(cfg.LogLevel); err == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	var store ports.SettingsStore
	if cfg.SettingsBackend == config.BackendFile {
		store = filesystem.NewSettingsFile(*homeFlag)
	} else {
		db, err := sqlite.Open(*homeFlag)
		if err != nil {
			logger.Error("open settings", "error", err)
			os.Exit(1)
		}
		store = db
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		"codemindmap-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, mcpadapter.Deps{
		Registry: application.NewProjectRegistry(store, *homeFlag, logger),
		Files:    filesystem.NewLinkFiles(),
		Lines:    editor.NewNavigator(nil),
		Match:    cfg.Match(),
	})

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}
