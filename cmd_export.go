package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tanukibot/internal/db"
	"tanukibot/internal/reports"
)

func newExportLeadsCmd() *cobra.Command {
	var (
		out   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "export-leads",
		Short: "Выгрузить заявки в файл Excel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := db.InitDB(storeOptions(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			leads, err := store.ListLeads(cmd.Context(), limit)
			if err != nil {
				return err
			}
			data, err := reports.BuildLeadsWorkbook(leads)
			if err != nil {
				return err
			}
			if out == "" {
				out = reports.LeadsFileName(time.Now())
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("запись %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Выгружено заявок: %d -> %s\n", len(leads), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "путь к файлу .xlsx (по умолчанию leads_<время>.xlsx)")
	cmd.Flags().IntVar(&limit, "limit", 0, "максимум заявок, 0 - все")
	return cmd
}
