package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"clamir/app"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	historySession string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded connect attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := newRuntime(ctx, runtimeOptions{consoleLog: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.store == nil {
			return errors.New("no database configured, set DB_HOST to record connect attempts")
		}

		var records []*app.AttemptRecord
		if historySession != "" {
			session, err := uuid.Parse(historySession)
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}
			records, err = rt.store.ListSessionAttempts(ctx, session)
			if err != nil {
				return err
			}
		} else {
			records, err = rt.store.ListRecentAttempts(ctx, historyLimit)
			if err != nil {
				return err
			}
		}

		printAttempts(cmd, records)
		return nil
	},
}

func printAttempts(cmd *cobra.Command, records []*app.AttemptRecord) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSESSION\tATTEMPT\tCODE\tSTEP")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.SessionID, rec.Attempt, rec.Code, rec.Step)
	}
	w.Flush()
}

func init() {
	historyCmd.Flags().StringVar(&historySession, "session", "", "show only this session")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of attempts to show")
}
