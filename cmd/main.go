package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const CliName = "clamir"

var envFile string

var rootCmd = &cobra.Command{
	Use:   CliName,
	Short: "clamir drives a CLAMIR melt-pool monitoring head",
	Long: "clamir connects to a CLAMIR monitoring head over the network, retrying a bounded number of times, " +
		"and offers the operator panel calculator from a terminal or over NATS.",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env-format configuration file")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
