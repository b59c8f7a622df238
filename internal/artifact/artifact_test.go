package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fakeRenderer records the script it was asked to render and optionally
// creates the figure file so Exists checks pass.
type fakeRenderer struct {
	scriptPath string
	figurePath string
	err        error
}

func (r *fakeRenderer) Render(_ context.Context, scriptPath string) error {
	r.scriptPath = scriptPath
	if r.err != nil {
		return r.err
	}
	if r.figurePath != "" {
		return os.WriteFile(r.figurePath, []byte("%PDF"), 0o644)
	}
	return nil
}

// ---------------------------------------------------------------------------
// TestDataset
// ---------------------------------------------------------------------------

func TestDataset_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")

	d := &Dataset{
		Columns: []string{"step", "score"},
		Rows:    [][]string{{"1", "0.4"}, {"2", "0.9"}},
	}
	require.NoError(t, d.WriteCSV(path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, d.Columns, got.Columns)
	assert.Equal(t, d.Rows, got.Rows)
}

func TestDataset_RowWidthMismatch(t *testing.T) {
	d := &Dataset{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1"}},
	}
	err := d.WriteCSV(filepath.Join(t.TempDir(), "bad.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 fields, want 2")
}

func TestReadCSV_Missing(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestReadCSV_Fixture(t *testing.T) {
	d, err := ReadCSV("../../testdata/fixtures/data.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"step", "score"}, d.Columns)
	assert.Len(t, d.Rows, 5)
}

// ---------------------------------------------------------------------------
// TestBundle
// ---------------------------------------------------------------------------

func TestAt(t *testing.T) {
	b := At("figures", "speed", "pdf")
	assert.Equal(t, filepath.Join("figures", "speed"), b.Dir)
	assert.Equal(t, filepath.Join("figures", "speed", "data.csv"), b.DataPath)
	assert.Equal(t, filepath.Join("figures", "speed", "code.py"), b.ScriptPath)
	assert.Equal(t, filepath.Join("figures", "speed", "speed.pdf"), b.FigurePath)
}

func TestWrite(t *testing.T) {
	b := At(t.TempDir(), "speed", "pdf")
	data := &Dataset{Columns: []string{"x"}, Rows: [][]string{{"1"}}}
	r := &fakeRenderer{figurePath: b.FigurePath}

	require.NoError(t, Write(context.Background(), b, data, "print('hi')\n", r))

	assert.Equal(t, b.ScriptPath, r.scriptPath, "renderer runs the written script")
	script, err := os.ReadFile(b.ScriptPath)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(script))
	assert.True(t, b.Exists(), "data, script, and figure should all be on disk")
}

func TestWrite_NilRendererAndData(t *testing.T) {
	b := At(t.TempDir(), "speed", "pdf")

	require.NoError(t, Write(context.Background(), b, nil, "pass\n", nil))

	_, err := os.Stat(b.ScriptPath)
	assert.NoError(t, err, "script still lands on disk")
	_, err = os.Stat(b.DataPath)
	assert.True(t, os.IsNotExist(err), "no dataset written without data")
	assert.False(t, b.Exists())
}

func TestWrite_RenderFailure(t *testing.T) {
	b := At(t.TempDir(), "speed", "pdf")
	want := errors.New("interpreter exploded")

	err := Write(context.Background(), b, nil, "pass\n", &fakeRenderer{err: want})
	assert.ErrorIs(t, err, want)
}

func TestCopyDataFile(t *testing.T) {
	b := At(t.TempDir(), "speed", "pdf")

	require.NoError(t, CopyDataFile(b, "../../testdata/fixtures/data.csv"))

	got, err := os.ReadFile(b.DataPath)
	require.NoError(t, err)
	src, err := os.ReadFile("../../testdata/fixtures/data.csv")
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestPythonRenderer_MissingInterpreter(t *testing.T) {
	r := PythonRenderer{Python: "definitely-not-a-python-binary"}
	err := r.Render(context.Background(), "nope.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-python-binary")
}
