// clipbox: clipboard history daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipbox",
		Short: "Clipboard history daemon",
		Long: `clipbox watches the system clipboard and keeps a bounded history of
distinct text and image entries. Any entry can be pushed back onto the
clipboard through the HTTP API or the CLI commands.

Run "clipbox serve" to start the daemon. Use "clipbox history", "clipbox copy"
and "clipbox paste" against a running daemon.

Config file search order (first found wins):
  $HOME/.config/clipbox/clipbox.toml
  path supplied via --config

All flags can be set via CLIPBOX_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newHistoryCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipbox %s\n", Version)
		},
	}
}
