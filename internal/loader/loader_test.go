package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/serialgraph/internal/schedule"
	"github.com/xuri/excelize/v2"
)

// writeFile creates a file with the given content inside dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeWorkbook saves a workbook whose sheets hold the given grids.
func writeWorkbook(t *testing.T, dir, name string, sheets map[string][][]string, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for r, row := range sheets[sheet] {
			for c, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet, cell, value))
			}
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// tokens renders a schedule's events as "T1:R(x)" strings.
func tokens(s *schedule.Schedule) []string {
	out := make([]string, len(s.Events))
	for i, e := range s.Events {
		out[i] = e.String()
	}
	return out
}

func TestRegistry_For(t *testing.T) {
	t.Parallel()

	r := Default(Options{})

	testCases := []struct {
		path    string
		want    Loader
		wantErr bool
	}{
		{path: "a.xlsx", want: &XLSXLoader{}},
		{path: "a.XLSM", want: &XLSXLoader{}},
		{path: "dir/a.csv", want: &CSVLoader{}},
		{path: "a.tsv", want: &CSVLoader{}},
		{path: "a.hcl", want: &HCLLoader{}},
		{path: "a.yml", want: &YAMLLoader{}},
		{path: "a.yaml", want: &YAMLLoader{}},
		{path: "a.txt", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			l, err := r.For(tc.path)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, l)
		})
	}
}

func TestRegistry_Extensions(t *testing.T) {
	t.Parallel()

	r := Default(Options{})
	assert.Equal(t, []string{".csv", ".hcl", ".tsv", ".xlsm", ".xlsx", ".yaml", ".yml"}, r.Extensions())
}

func TestRegistry_Discover(t *testing.T) {
	t.Parallel()

	r := Default(Options{})

	t.Run("single file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "s.csv", "T1\nR(x)\n")

		files, err := r.Discover(path)
		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("single file with unsupported extension", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "notes.txt", "hello")

		_, err := r.Discover(path)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("directory is searched recursively", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.csv", "T1\n")
		b := writeFile(t, dir, "nested/b.yaml", "steps: []\n")
		writeFile(t, dir, "nested/readme.md", "# not a schedule")

		files, err := r.Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, files)
	})

	t.Run("directory without schedules", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "readme.md", "nothing")

		_, err := r.Discover(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no schedule files found")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := r.Discover(filepath.Join(t.TempDir(), "missing.csv"))
		require.Error(t, err)
	})
}

func TestRegistry_Load_WrapsLoaderErrors(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "# comment\nT1,T2\nR(x),Q(y)\n")

	// Act
	_, err := Default(Options{}).Load(context.Background(), path)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrUnknownOperation)
	assert.Contains(t, err.Error(), "failed to load")

	var perr *schedule.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, schedule.TxnID("T2"), perr.Txn)
	assert.Equal(t, 1, perr.Row, "rows count data rows only")
	assert.Contains(t, err.Error(), "data row 1, transaction T2")
}

func TestYAMLLoader_DuplicateKeyInStep(t *testing.T) {
	t.Parallel()

	// Arrange
	path := writeFile(t, t.TempDir(), "s.yaml", "steps:\n  - {T1: R(x), T1: W(x)}\n  - {T2: W(x)}\n")

	// Act
	_, err := Default(Options{}).Load(context.Background(), path)

	// Assert
	var perr *schedule.ParseError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, schedule.ErrDuplicateTransaction)
	assert.Equal(t, schedule.TxnID("T1"), perr.Txn)
}

func TestRegistry_ForODS(t *testing.T) {
	t.Parallel()

	_, err := Default(Options{}).For("schedule.ods")

	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "save the sheet as .xlsx")
	assert.Contains(t, err.Error(), ".csv, .hcl, .tsv, .xlsm, .xlsx, .yaml, .yml")
}

func TestFromGrid(t *testing.T) {
	t.Parallel()

	t.Run("trailing blank headers are ignored", func(t *testing.T) {
		s, err := fromGrid("grid", []string{"T1", "T2", " ", ""}, [][]string{
			{"R(x)"},
			{"", "W(x)", "", ""},
		})
		require.NoError(t, err)
		assert.Equal(t, []schedule.TxnID{"T1", "T2"}, s.Transactions)
		assert.Equal(t, []string{"T1:R(x)", "T2:W(x)"}, tokens(s))
		assert.Equal(t, 2, s.RowCount)
	})

	t.Run("empty header", func(t *testing.T) {
		_, err := fromGrid("grid", []string{"", ""}, nil)
		require.Error(t, err)
	})

	t.Run("blank header between names", func(t *testing.T) {
		_, err := fromGrid("grid", []string{"T1", "", "T3"}, nil)
		require.ErrorIs(t, err, schedule.ErrEmptyTransaction)
	})

	t.Run("duplicate header", func(t *testing.T) {
		_, err := fromGrid("grid", []string{"T1", "T1"}, nil)
		require.ErrorIs(t, err, schedule.ErrDuplicateTransaction)
	})

	t.Run("value outside header columns", func(t *testing.T) {
		_, err := fromGrid("grid", []string{"T1"}, [][]string{{"R(x)", "W(x)"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no transaction header")
	})

	t.Run("columns are read left to right within a row", func(t *testing.T) {
		s, err := fromGrid("grid", []string{"T1", "T2"}, [][]string{{"R(x)", "R(x)"}})
		require.NoError(t, err)
		require.Len(t, s.Events, 2)
		assert.Equal(t, schedule.TxnID("T1"), s.Events[0].Txn)
		assert.Equal(t, schedule.TxnID("T2"), s.Events[1].Txn)
	})
}
