package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sst/lens/internal/db"
	"github.com/sst/lens/internal/format"
	"github.com/sst/lens/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print persisted log records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := format.Parse(mustString(cmd, "output-format"))
		if err != nil {
			return err
		}
		setupCLILogging(false)
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		conn, err := db.Connect(cmd.Context(), cfg.DataDirectory())
		if err != nil {
			return err
		}
		defer conn.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := logging.InitService(conn).ListAll(cmd.Context(), limit)
		if err != nil {
			return err
		}
		entries := make([]format.LogEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, format.LogEntry{
				Timestamp:  r.Timestamp,
				Level:      r.Level,
				Message:    r.Message,
				Attributes: r.Attributes,
			})
		}
		out, err := format.FormatLogs(entries, outputFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	logsCmd.Flags().Int("limit", 100, "Number of records to print")
	logsCmd.Flags().StringP("output-format", "f", string(format.TextFormat), "Output format (text, json)")
	rootCmd.AddCommand(logsCmd)
}
