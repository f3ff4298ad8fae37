package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/regionmap/internal/region"
)

var regionsProvince string

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List provinces, or the regencies of one province",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if regionsProvince == "" {
			formatProvinces(os.Stdout, ds)
			return nil
		}

		if _, _, ok := ds.Provinces().Find(regionsProvince); !ok {
			return unknownProvince("regions", ds, regionsProvince)
		}
		regencies := ds.RegenciesOf(regionsProvince)
		if regencies.Empty() {
			fmt.Fprintf(os.Stderr, "Province %s has no mapped regencies.\n", regionsProvince)
			return nil
		}
		formatRegencies(os.Stdout, regionsProvince, regencies)
		return nil
	},
}

// unknownProvince lists the codes the dataset does know.
func unknownProvince(op string, ds *region.Dataset, code string) error {
	return eris.Errorf("%s: unknown province %q (known: %s)", op, code, strings.Join(ds.Provinces().Codes(), ", "))
}

func formatProvinces(w io.Writer, ds *region.Dataset) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tREGENCIES")
	for _, f := range ds.Provinces().Features {
		code, ok := region.ResolveCode(f, region.LevelProvince)
		if !ok {
			code = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", code, region.ResolveName(f, region.LevelProvince), ds.RegenciesOf(code).Len())
	}
	_ = tw.Flush()
}

func formatRegencies(w io.Writer, provinceCode string, c *region.Collection) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tCODE\tCITY CODE\tNAME")
	for i, f := range c.Features {
		code, ok := region.ResolveCode(f, region.LevelRegency)
		cityCode := "-"
		if ok {
			cityCode = provinceCode + "." + code
		} else {
			code = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, code, cityCode, region.ResolveName(f, region.LevelRegency))
	}
	_ = tw.Flush()
}

func init() {
	regionsCmd.Flags().StringVar(&regionsProvince, "province", "", "list the regencies of this province code")
	rootCmd.AddCommand(regionsCmd)
}
