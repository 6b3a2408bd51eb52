package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sst/lens/internal/db"
	"github.com/sst/lens/internal/format"
	"github.com/sst/lens/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded versions, newest first",
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

		svc := history.NewService(conn)
		defer svc.Shutdown()

		limit, _ := cmd.Flags().GetInt("limit")
		versions, err := svc.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		entries := make([]format.VersionEntry, 0, len(versions))
		for _, v := range versions {
			entries = append(entries, format.VersionEntry{
				ID:            v.ID,
				Number:        v.Number,
				Title:         v.Title,
				Visualization: v.VisualizationID,
				CreatedAt:     v.CreatedAt,
			})
		}
		out, err := format.FormatVersions(entries, outputFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of versions to list (0 for all)")
	historyCmd.Flags().StringP("output-format", "f", string(format.TextFormat), "Output format (text, json)")
	rootCmd.AddCommand(historyCmd)
}
