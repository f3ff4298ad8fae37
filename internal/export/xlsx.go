// Package export writes the region dataset to spreadsheet workbooks.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/regionmap/internal/region"
)

// Sheet names.
const (
	SheetProvinces = "provinces"
	SheetRegencies = "regencies"
)

// Header is the column layout of both sheets.
var Header = []string{"code", "name", "province_code"}

// Rows returns the table for one collection: resolved code, resolved name and
// owning province code. Province rows repeat their own code.
func Rows(c *region.Collection) [][]string {
	rows := make([][]string, 0, c.Len())
	for _, f := range c.Features {
		code, _ := region.ResolveCode(f, c.Level)
		provinceCode, _ := region.ProvinceCodeOf(f)
		rows = append(rows, []string{code, region.ResolveName(f, c.Level), provinceCode})
	}
	return rows
}

// WriteXLSX writes a workbook with one sheet per level.
func WriteXLSX(path string, ds *region.Dataset) error {
	f := xlsx.NewFile()

	for _, s := range []struct {
		name string
		c    *region.Collection
	}{
		{SheetProvinces, ds.Provinces()},
		{SheetRegencies, ds.Regencies()},
	} {
		sheet, err := f.AddSheet(s.name)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", s.name)
		}
		addRow(sheet, Header)
		for _, r := range Rows(s.c) {
			addRow(sheet, r)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// ReadXLSX reads all rows of the named sheet, header included.
func ReadXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open workbook")
	}

	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("export: sheet %q not found", sheetName)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// Verify reads the workbook at path back and checks that both sheets hold
// exactly the rows WriteXLSX would produce for ds.
func Verify(path string, ds *region.Dataset) error {
	for _, s := range []struct {
		name string
		c    *region.Collection
	}{
		{SheetProvinces, ds.Provinces()},
		{SheetRegencies, ds.Regencies()},
	} {
		got, err := ReadXLSX(path, s.name)
		if err != nil {
			return err
		}
		want := append([][]string{Header}, Rows(s.c)...)
		if len(got) != len(want) {
			return eris.Errorf("export: sheet %s has %d rows, want %d", s.name, len(got), len(want))
		}
		for i := range want {
			if !equalRow(got[i], want[i]) {
				return eris.Errorf("export: sheet %s row %d is %v, want %v", s.name, i, got[i], want[i])
			}
		}
	}
	return nil
}

// equalRow ignores trailing empty cells, which the reader may omit.
func equalRow(a, b []string) bool {
	a, b = trimRow(a), trimRow(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func trimRow(r []string) []string {
	for len(r) > 0 && r[len(r)-1] == "" {
		r = r[:len(r)-1]
	}
	return r
}
