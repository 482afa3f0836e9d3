package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"codemindmap/internal/adapters/control"
	"codemindmap/internal/ports"
)

const linkTimeout = 10 * time.Second

var (
	linkLine      int
	linkText      string
	linkCaretText string
)

var linkCmd = &cobra.Command{
	Use:   "link <file>",
	Short: "Link the current editor selection into the open mind map",
	Long: `Link the current editor selection into the open mind map. The
selected code becomes a new child of the selected node (or of the root).

With an empty selection the text of the caret line is used. Pass --text -
to read the selection from stdin.

Examples:
  codemindmap link src/cart.go --line 42 --text "func (c *Cart) Total() int {"
  sed -n 42,44p src/cart.go | codemindmap link src/cart.go --line 42 --text -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		text := linkText
		if text == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read selection: %w", err)
			}
			text = string(data)
		}

		sel := ports.Selection{
			FilePath:      path,
			Text:          text,
			TopLine:       linkLine,
			CaretLineText: linkCaretText,
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), linkTimeout)
		defer cancel()

		reply, err := control.LinkSelection(ctx, control.SocketPath(appDataRoot), sel)
		if errors.Is(err, control.ErrNotRunning) {
			fmt.Fprintln(cmd.ErrOrStderr(), control.NotRunningMessage)
			return nil
		}
		if err != nil {
			return err
		}

		if !reply.OK {
			fmt.Fprintln(cmd.ErrOrStderr(), reply.Message)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Message)
		return nil
	},
}

func init() {
	linkCmd.Flags().IntVarP(&linkLine, "line", "l", 0, "1-based line the selection starts on")
	linkCmd.Flags().StringVarP(&linkText, "text", "t", "", "selected text, or - to read it from stdin")
	linkCmd.Flags().StringVar(&linkCaretText, "caret-text", "", "text of the caret line, used when the selection is empty")
	linkCmd.MarkFlagRequired("line")
	rootCmd.AddCommand(linkCmd)
}
