package main

import (
	"fmt"

	"clamir/app"
	"clamir/device"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const CalcCmdExample = `# Divide two integers
clamir calc divide 84 2`

var calcCmd = &cobra.Command{
	Use:     "calc <add|subtract|multiply|divide> <a> <b>",
	Short:   "Run one arithmetic button",
	Example: CalcCmdExample,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := app.ParseOperation(args[0])
		if err != nil {
			return err
		}

		// arithmetic never touches the device, so no runtime is needed
		calc, err := app.NewCalculator(device.NewClient(device.Options{}, zap.NewNop()))
		if err != nil {
			return err
		}
		result, err := calc.Calculate(op, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}
