package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/regionmap/internal/region"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check config and boundary dataset consistency",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("cli"); err != nil {
			return err
		}

		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		report := ds.Validate()
		formatReport(os.Stdout, report)

		if validateStrict && !report.Clean() {
			return eris.New("validate: dataset has unresolvable or orphan features")
		}
		return nil
	},
}

func formatReport(w io.Writer, r region.Report) {
	fmt.Fprintf(w, "provinces:  %d\n", r.Provinces)
	fmt.Fprintf(w, "regencies:  %d\n", r.Regencies)

	codes := make([]string, 0, len(r.RegencyCounts))
	for code := range r.RegencyCounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %s: %d regencies\n", code, r.RegencyCounts[code])
	}

	if len(r.ChildlessProvinces) > 0 {
		fmt.Fprintf(w, "childless provinces: %s\n", strings.Join(r.ChildlessProvinces, ", "))
	}
	if len(r.UnresolvedProvinces) > 0 {
		fmt.Fprintf(w, "unresolved province features: %v\n", r.UnresolvedProvinces)
	}
	if len(r.UnresolvedRegencies) > 0 {
		fmt.Fprintf(w, "unresolved regency features: %v\n", r.UnresolvedRegencies)
	}
	if len(r.OrphanRegencies) > 0 {
		fmt.Fprintf(w, "orphan regency features: %v\n", r.OrphanRegencies)
	}
	if r.Clean() {
		fmt.Fprintln(w, "status: ok")
	} else {
		fmt.Fprintln(w, "status: problems found")
	}
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when features cannot be resolved")
	rootCmd.AddCommand(validateCmd)
}
