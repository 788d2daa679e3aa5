package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"clamir/models"
)

// Notifier shows a notification and blocks until it is acknowledged.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

type NotifierFunc func(ctx context.Context, n models.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n models.Notification) error {
	return f(ctx, n)
}

// MultiNotifier delivers to every notifier in order and stops at the first
// error.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n models.Notification) error {
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// TerminalNotifier prints each notification and waits for the user to press
// Enter. With AutoAck set it only prints.
type TerminalNotifier struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	AutoAck bool
}

func NewTerminalNotifier(in *bufio.Reader, out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{in: in, out: out}
}

func (t *TerminalNotifier) Notify(ctx context.Context, n models.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(t.out, "[%s] %s\n", n.Kind, n.Message); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	if t.AutoAck || t.in == nil {
		return nil
	}

	fmt.Fprint(t.out, "(press Enter to continue) ")
	if _, err := t.in.ReadString('\n'); err != nil {
		// Input is gone, nobody is left to acknowledge.
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t.out)
			return nil
		}
		return fmt.Errorf("failed to read acknowledgement: %w", err)
	}
	return nil
}
