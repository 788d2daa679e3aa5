package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"clamir/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const consoleHelp = `commands:
  add|subtract|multiply|divide [a b]   press an arithmetic button, optionally filling both fields first
  set <a> <b>                          fill the two operand fields
  connect                              connect to the device, retrying on failure
  disconnect                           drop the device connection
  status                               show whether the device link is up
  output                               show the output field
  help                                 show this help
  quit                                 leave the console`

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Operate the panel interactively",
	Long:  "Opens an interactive panel. Every connect notification waits for Enter, like a modal dialog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := newRuntime(ctx, runtimeOptions{consoleLog: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		in := bufio.NewReader(os.Stdin)
		panel, err := rt.panel(app.NewTerminalNotifier(in, os.Stdout))
		if err != nil {
			return err
		}

		// with NATS configured, remote presses share the panel with the terminal
		var bus app.MessageBus
		if rt.nc != nil {
			bus = rt.nc
		}
		bridge, err := attachBridge(ctx, panel, bus, rt.log)
		if err != nil {
			return err
		}
		if bridge != nil {
			defer bridge.Stop()
		}

		return runConsole(ctx, panel, in, os.Stdout)
	},
}

// attachBridge starts a NATS bridge on panel, or returns nil when bus is nil.
func attachBridge(ctx context.Context, panel *app.Panel, bus app.MessageBus, log *zap.Logger) (*app.Bridge, error) {
	if bus == nil {
		return nil, nil
	}
	bridge, err := app.NewBridge(panel, bus, log)
	if err != nil {
		return nil, err
	}
	if err := bridge.Start(ctx); err != nil {
		return nil, err
	}
	return bridge, nil
}

// runConsole reads one command per line until quit or end of input.
func runConsole(ctx context.Context, panel *app.Panel, in *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, consoleHelp)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(out, "clamir> ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read command: %w", err)
		}
		eof := err != nil

		fields := strings.Fields(line)
		if len(fields) > 0 {
			if quit := runConsoleCommand(ctx, panel, fields, out); quit {
				return nil
			}
		}
		if eof {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func runConsoleCommand(ctx context.Context, panel *app.Panel, fields []string, out io.Writer) bool {
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		return true

	case "help":
		fmt.Fprintln(out, consoleHelp)

	case "set":
		if len(args) != 2 {
			fmt.Fprintln(out, "usage: set <a> <b>")
			return false
		}
		panel.SetOperands(args[0], args[1])

	case "output":
		fmt.Fprintln(out, panel.Output())

	case app.OpConnect:
		outcome, err := panel.PressConnect(ctx)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		} else if !outcome.Connected {
			fmt.Fprintf(out, "not connected (%d attempts, last code %d)\n", outcome.Attempts, outcome.LastCode)
		}

	case app.OpDisconnect:
		panel.PressDisconnect()

	case app.OpStatus:
		if panel.Status() {
			fmt.Fprintln(out, "connected")
		} else {
			fmt.Fprintln(out, "not connected")
		}

	default:
		op, err := app.ParseOperation(name)
		if err != nil {
			fmt.Fprintf(out, "unknown command %q, try help\n", name)
			return false
		}

		var result string
		switch len(args) {
		case 0:
			result, err = panel.Press(op)
		case 2:
			result, err = panel.Enter(op, args[0], args[1])
		default:
			fmt.Fprintf(out, "usage: %s [a b]\n", op)
			return false
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, result)
	}
	return false
}
