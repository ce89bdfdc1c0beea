package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// TerminalChannel prints notifications to a terminal with severity colors.
type TerminalChannel struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewTerminalChannel creates a terminal channel writing to stdout.
func NewTerminalChannel() *TerminalChannel {
	return &TerminalChannel{writer: os.Stdout}
}

// NewTerminalChannelWriter creates a terminal channel writing to w.
func NewTerminalChannelWriter(w io.Writer) *TerminalChannel {
	return &TerminalChannel{writer: w}
}

// Name implements Channel.
func (c *TerminalChannel) Name() string {
	return "terminal"
}

// Send implements Notifier.
func (c *TerminalChannel) Send(_ context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp := msg.Timestamp.Format("15:04:05")
	header := fmt.Sprintf("[%s] %s", stamp, msg.Title)

	var err error
	switch msg.Severity {
	case SeverityCritical:
		_, err = color.New(color.FgRed, color.Bold).Fprintln(c.writer, header)
	case SeverityWarning:
		_, err = color.New(color.FgYellow).Fprintln(c.writer, header)
	default:
		_, err = color.New(color.FgCyan).Fprintln(c.writer, header)
	}
	if err != nil {
		return err
	}

	if msg.Body != "" {
		_, err = fmt.Fprintf(c.writer, "        %s\n", msg.Body)
	}
	return err
}
