package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codemindmap/internal/adapters/clipboard"
	"codemindmap/internal/adapters/control"
	"codemindmap/internal/adapters/editor"
	"codemindmap/internal/adapters/filesystem"
	"codemindmap/internal/adapters/surface"
	"codemindmap/internal/adapters/tui"
	"codemindmap/internal/adapters/uri"
	"codemindmap/internal/application"
	"codemindmap/internal/application/bridge"
)

// closeTimeout bounds the final save on shutdown
const closeTimeout = 5 * time.Second

var openCmd = &cobra.Command{
	Use:   "open [project-file]",
	Short: "Host the mind-map panel for a project",
	Long: `Host the mind-map panel for a project. The panel is reached over
stdin/stdout with Content-Length framed JSON messages.

The project is identified by its project file, or by a workspace folder.
Without an argument the current directory is used. Its mind map is loaded
from the project's link store, which is created on the first edit.

Examples:
  codemindmap open ~/src/shop/Shop.sln
  codemindmap open .`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := "."
		if len(args) == 1 {
			project = args[0]
		}
		projectFile, err := filepath.Abs(project)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPanel(ctx, projectFile)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runPanel(ctx context.Context, projectFile string) error {
	store, err := openSettings()
	if err != nil {
		return err
	}
	defer store.Close()

	var launcher editor.Launcher = editor.NewOpener(cfg.Editor)
	if scheme := cfg.URIScheme(); scheme != "" {
		launcher = uri.NewOpener(scheme)
	}

	await, err := cfg.Await()
	if err != nil {
		return err
	}

	files := filesystem.NewLinkFiles()
	b := bridge.New(bridge.Deps{
		Navigator: editor.NewNavigator(launcher),
		Notifier:  tui.NewNotifier(os.Stderr),
		Dialogs:   tui.NewDialogs(nil),
		Files:     files,
		Clipboard: clipboard.New(),
		Logger:    logger,
	}, bridge.Options{AwaitTimeout: await, Match: cfg.Match()})

	registry := application.NewProjectRegistry(store, appDataRoot, logger)
	session := bridge.NewSession(b, registry, files)

	stream := surface.NewStream(os.Stdin, os.Stdout, logger)
	b.Attach(stream)
	defer b.Detach()

	srv, err := control.Listen(control.SocketPath(appDataRoot), session.LinkSelection, logger)
	if err != nil {
		return err
	}
	defer srv.Close()
	go func() {
		if err := srv.Serve(ctx); err != nil {
			logger.Warn("control socket stopped", "error", err)
		}
	}()

	// panel messages keep flowing during the final save, so they are not
	// tied to the signal context
	serveCtx, stopServe := context.WithCancel(context.Background())
	defer stopServe()
	done := make(chan error, 1)
	go func() { done <- stream.Serve(serveCtx, b) }()

	if err := session.OpenProject(ctx, projectFile); err != nil {
		var verr *application.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		// reported to the user, the panel stays usable
	}
	logger.Info("panel ready", "project", projectFile, "socket", srv.Path())

	select {
	case err := <-done:
		logger.Info("panel closed")
		return err
	case <-ctx.Done():
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := session.CloseProject(closeCtx); err != nil {
			return fmt.Errorf("close project: %w", err)
		}
		return nil
	}
}
