package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/regionmap/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export province and regency codes to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if err := export.WriteXLSX(exportOut, ds); err != nil {
			return err
		}
		if err := export.Verify(exportOut, ds); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d provinces and %d regencies to %s\n",
			ds.Provinces().Len(), ds.Regencies().Len(), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "regions.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
