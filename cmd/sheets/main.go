/*
main.go - Sheet API command-line client

PURPOSE:
  Talks to a running sheet server: list, print, upload, delete and export
  sheets, or open the terminal editor.

COMMANDS:
  sheets list
  sheets show TITLE              (prints the rows as CSV)
  sheets upload --title T FILE
  sheets delete TITLE
  sheets export TITLE [-o FILE]  (XLSX with a line chart)
  sheets tui [--log FILE]

GLOBAL FLAGS:
  --api      API base URL (default: $SHEETS_API_URL, else http://localhost:4200)
  --timeout  Per-request timeout (default: 30s)

SEE ALSO:
  - client/client.go: HTTP client
  - views/:          Upload validation shared with the TUI
  - tui/:            Terminal editor
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/sheet-editor/client"
	"github.com/warp/sheet-editor/sheet"
	"github.com/warp/sheet-editor/tui"
	"github.com/warp/sheet-editor/views"
)

const defaultAPI = "http://localhost:4200"

var (
	apiURL     string
	timeout    time.Duration
	uploadName string
	exportPath string
	logPath    string

	api *client.Client
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "sheets",
		Short:        "Work with CSV-backed sheets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(client.Config{BaseURL: apiURL, Timeout: timeout})
			if err != nil {
				return err
			}
			api = c
			return nil
		},
	}

	defaultURL := os.Getenv("SHEETS_API_URL")
	if defaultURL == "" {
		defaultURL = defaultAPI
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API base URL (env SHEETS_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Per-request timeout")

	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Create a sheet from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
	uploadCmd.Flags().StringVarP(&uploadName, "title", "t", "", "Sheet title (required)")

	exportCmd := &cobra.Command{
		Use:   "export TITLE",
		Short: "Download a sheet as XLSX",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Output file (default: TITLE.xlsx)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal editor",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&logPath, "log", "", "Write diagnostics to this file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List sheets",
			Args:  cobra.NoArgs,
			RunE:  runList,
		},
		&cobra.Command{
			Use:   "show TITLE",
			Short: "Print a sheet's rows as CSV",
			Args:  cobra.ExactArgs(1),
			RunE:  runShow,
		},
		&cobra.Command{
			Use:   "delete TITLE",
			Short: "Delete a sheet",
			Args:  cobra.ExactArgs(1),
			RunE:  runDelete,
		},
		uploadCmd,
		exportCmd,
		tuiCmd,
	)

	return rootCmd
}

func runList(cmd *cobra.Command, args []string) error {
	summaries, err := api.ListSheets(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tCREATED\tUPDATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Title,
			s.CreatedAt.Local().Format(time.DateTime), s.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := api.GetSheet(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return sheet.WriteCSV(cmd.OutOrStdout(), s.Rows)
}

// runUpload goes through views.List so the CLI rejects a missing title the
// same way the editor does, without calling the server.
func runUpload(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	list := views.NewList(views.Config{Backend: api, Notifier: printNotices(cmd.ErrOrStderr())})
	list.SetTitle(uploadName)
	list.SelectFile(filepath.Base(args[0]), data)
	return list.Upload(cmd.Context())
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteSheet(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	path := exportPath
	if path == "" {
		path = args[0] + ".xlsx"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := api.ExportSheet(cmd.Context(), args[0], f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := views.Config{Backend: api}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer f.Close()
		cfg.Logger = log.New(f, "", log.LstdFlags)
	}
	return tui.Run(cmd.Context(), cfg)
}

func printNotices(w io.Writer) views.Notifier {
	return views.NotifierFunc(func(n views.Notice) {
		fmt.Fprintf(w, "%s: %s\n", n.Title, n.Message)
	})
}
