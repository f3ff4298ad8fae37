package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/regionmap/internal/region"
	"github.com/sells-group/regionmap/internal/session"
)

var drillCmd = &cobra.Command{
	Use:   "drill <province-code> [regency-index]",
	Short: "Run the map drill-down headless and print each transition",
	Long:  "Clicks a province on a fresh map session, optionally clicks one of its regencies by index, and prints the resulting layer, host callbacks and viewport commands.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		opts, err := sessionOptions(cfg)
		if err != nil {
			return err
		}

		regencyIndex := -1
		if len(args) == 2 {
			regencyIndex, err = strconv.Atoi(args[1])
			if err != nil {
				return eris.Wrapf(err, "drill: invalid regency index %q", args[1])
			}
		}

		return runDrill(os.Stdout, ds, opts, args[0], regencyIndex)
	},
}

// runDrill clicks province code and, when regencyIndex >= 0, the regency at
// that index of the resulting layer.
func runDrill(w io.Writer, ds *region.Dataset, opts session.Options, code string, regencyIndex int) error {
	s := session.New("cli", ds, 1024, opts)
	formatSnapshot(w, "mount", s.Snapshot())

	_, index, ok := ds.Provinces().Find(code)
	if !ok {
		return unknownProvince("drill", ds, code)
	}
	snap, err := s.Click("", index)
	if err != nil {
		return eris.Wrap(err, "drill: click province")
	}
	formatSnapshot(w, "click province "+code, snap)

	if regencyIndex < 0 {
		return nil
	}
	snap, err = s.Click(snap.Layer.Key, regencyIndex)
	if err != nil {
		return eris.Wrapf(err, "drill: click regency %d", regencyIndex)
	}
	formatSnapshot(w, fmt.Sprintf("click regency %d", regencyIndex), snap)
	return nil
}

func formatSnapshot(w io.Writer, step string, snap *session.Snapshot) {
	fmt.Fprintf(w, "== %s\n", step)
	if snap.Outcome != "" {
		fmt.Fprintf(w, "outcome:  %s\n", snap.Outcome)
	}
	fmt.Fprintf(w, "layer:    %s (%d regions, reset control %t)\n",
		snap.Layer.Key, len(snap.Layer.Paths), snap.Layer.ResetControl())
	if snap.Province != nil {
		fmt.Fprintf(w, "province: %s %s\n", snap.Province.Code, snap.Province.Name)
	}
	if snap.City != nil {
		fmt.Fprintf(w, "city:     %s %s\n", snap.City.Code, snap.City.Name)
	}
	for _, cb := range snap.Callbacks {
		fmt.Fprintf(w, "callback: %s(%q, %q", cb.Kind, cb.Code, cb.Name)
		if cb.Kind == session.CallbackCity {
			fmt.Fprintf(w, ", %q", cb.ProvinceCode)
		}
		fmt.Fprintln(w, ")")
	}
	for _, c := range snap.Commands {
		switch c.Op {
		case session.OpFitBounds:
			fmt.Fprintf(w, "viewport: fit_bounds %.4f,%.4f %.4f,%.4f padding=%d max_zoom=%d\n",
				c.Bounds[0], c.Bounds[1], c.Bounds[2], c.Bounds[3], c.Padding, c.MaxZoom)
		case session.OpSetView:
			fmt.Fprintf(w, "viewport: set_view %.4f,%.4f zoom=%d\n", c.Center.Lat, c.Center.Lng, c.Zoom)
		}
	}
}

func init() {
	rootCmd.AddCommand(drillCmd)
}
