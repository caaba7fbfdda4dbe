package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lajidonggua/ClipBox/internal/history"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

func addServerFlag(cmd *cobra.Command) {
	cmd.Flags().String("server", defaultAddr, "address of the running clipbox daemon")
}

func apiURL(v *viper.Viper, path string) string {
	return "http://" + v.GetString("server") + path
}

func fetchHistory(v *viper.Viper) ([]history.Entry, error) {
	resp, err := httpClient.Get(apiURL(v, "/api/history"))
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daemon returned %s", resp.Status)
	}
	var entries []history.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func newHistoryCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the recorded clipboard history, newest first",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error { return runHistory(v) },
	}
	addServerFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runHistory(v *viper.Viper) error {
	entries, err := fetchHistory(v)
	if err != nil {
		return err
	}
	for i, e := range entries {
		fmt.Printf("%3d  %s  %s\n", i, e.ID, previewText(e))
	}
	return nil
}

// previewText renders a single-line summary of an entry. Truncation happens
// on rune boundaries so multi-byte content is never cut mid-character.
func previewText(e history.Entry) string {
	if e.Kind == history.KindImage {
		return fmt.Sprintf("[image, %d bytes encoded]", len(e.Content))
	}
	preview := e.Content
	if r := []rune(preview); len(r) > 72 {
		preview = string(r[:72]) + "…"
	}
	return strings.ReplaceAll(preview, "\n", "⏎")
}

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy stdin to the clipboard through the daemon (like pbcopy)",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error { return runCopy(v) },
	}
	addServerFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runCopy(v *viper.Viper) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]string{"content": string(data)})
	if err != nil {
		return err
	}
	resp, err := httpClient.Post(apiURL(v, "/api/clipboard/text"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	return nil
}

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Print the newest history entry to stdout (like pbpaste)",
		Long: `Prints the newest text entry. With --index n, prints the nth entry
(0 = newest). Image entries are printed as their data URI.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error { return runPaste(v) },
	}
	cmd.Flags().Int("index", 0, "history index to print (0 = newest)")
	addServerFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runPaste(v *viper.Viper) error {
	entries, err := fetchHistory(v)
	if err != nil {
		return err
	}
	idx := v.GetInt("index")
	if idx < 0 || idx >= len(entries) {
		return fmt.Errorf("no history entry at index %d (history has %d entries)", idx, len(entries))
	}
	fmt.Print(entries[idx].Content)
	return nil
}
