package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmuslimabdulj/roomchat/internal/logging"
	"github.com/mmuslimabdulj/roomchat/internal/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type options struct {
	dbPath string
	format string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "chatctl",
		Short: "Administer a roomchat database",
		Long: `chatctl inspects and edits the roomchat room directory and user store
directly. Stop the server first: the database allows a single writer.

Available commands:
  rooms list            List every room
  rooms create <title>  Create a room
  users list            List every user and the room they are assigned to`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "./data", "Path to the badger database")
	root.PersistentFlags().StringVar(&opts.format, "format", "table", "Output format: table or json")

	root.AddCommand(newRoomsCmd(opts), newUsersCmd(opts))
	return root
}

// withStore opens the database for the duration of fn
func withStore(opts *options, fn func(*storage.Store) error) error {
	switch opts.format {
	case "table", "json":
	default:
		return fmt.Errorf("unknown format %q: want table or json", opts.format)
	}

	logger := logging.New("warn", "text")
	store, err := storage.Open(storage.Options{Path: opts.dbPath}, logger)
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.dbPath, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("close database", "error", err)
		}
	}()
	return fn(store)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
