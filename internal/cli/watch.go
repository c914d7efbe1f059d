package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/dominoes-go/internal/snapshot"
)

func newWatchCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "watch <gameId>",
		Short: "Follow a game's event stream",
		Long: `Connect to the game's SSE endpoint and print the table as it changes.

Every event carries a full game, round or hand document. Documents are
folded into the current state, and stale or repeated ones are dropped.
With --raw the events are printed as they arrive instead.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchGame(ctx, args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print events without folding them")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func watchGame(ctx context.Context, gameID string, raw bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + gamePath(gameID, "events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	// No timeout for SSE
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	out := NewOutput(cfg.Output)
	var state snapshot.State
	err = readSSE(resp.Body, func(event string, data []byte) error {
		if raw {
			out.printEvent(event, data)
			return nil
		}
		if event == "connected" || event == "ping" {
			return nil
		}

		decoded, err := snapshot.Decode(data)
		if err != nil {
			return err
		}
		next, changed := state.Apply(decoded)
		state = next
		if !changed {
			return nil
		}
		if cfg.Output == OutputText {
			_, _ = fmt.Fprintf(out.w, "--- %s %s\n", time.Now().Format("15:04:05"), event)
		}
		out.Print(state)
		if state.Cancelled {
			return io.EOF
		}
		return nil
	})
	if errors.Is(err, io.EOF) || ctx.Err() != nil {
		return nil
	}
	return err
}

// readSSE calls fn for each complete event frame in the stream
func readSSE(r io.Reader, fn func(event string, data []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	var dataLines []string
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "":
			// End of event
			if event != "" {
				if err := fn(event, []byte(strings.Join(dataLines, "\n"))); err != nil {
					return err
				}
			}
			event = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

func (o *Output) printEvent(event string, data []byte) {
	now := time.Now()

	if o.format == OutputJSON {
		evt := SSEEvent{Time: now, Event: event, Data: data}
		if !json.Valid(data) {
			evt.Data, _ = json.Marshal(string(data))
		}
		jsonData, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(o.w, string(jsonData))
		return
	}

	displayData := strings.ReplaceAll(string(data), "\n", " ")
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	_, _ = fmt.Fprintf(o.w, "[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, displayData)
}
