package main

import (
	"bufio"
	"fmt"
	"os"

	"clamir/app"

	"github.com/spf13/cobra"
)

var assumeYes bool

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the device, retrying on failure",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := newRuntime(ctx, runtimeOptions{consoleLog: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		notifier := app.NewTerminalNotifier(bufio.NewReader(os.Stdin), os.Stdout)
		notifier.AutoAck = assumeYes

		panel, err := rt.panel(notifier)
		if err != nil {
			return err
		}

		outcome, err := panel.PressConnect(ctx)
		if err != nil {
			return err
		}
		if !outcome.Connected {
			return fmt.Errorf("device unreachable after %d attempts (last code %d)", outcome.Attempts, outcome.LastCode)
		}
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Drop the device connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context(), runtimeOptions{consoleLog: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		panel, err := rt.panel(app.NewTerminalNotifier(nil, os.Stdout))
		if err != nil {
			return err
		}
		panel.PressDisconnect()
		return nil
	},
}

func init() {
	connectCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not wait for Enter after each notification")
}
