package pysrc

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// readFixture reads a test fixture file relative to the project root.
// Tests run from internal/pysrc/, so the relative path is ../../testdata/...
func readFixture(t *testing.T, relPath string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../" + relPath)
	require.NoError(t, err, "reading fixture %s", relPath)
	return data
}

func parseFixture(t *testing.T, relPath string) *Module {
	t.Helper()
	m, err := ParseModule(relPath, readFixture(t, relPath))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func parseSource(t *testing.T, source string) *Module {
	t.Helper()
	m, err := ParseModule("<test>", []byte(source))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

// ---------------------------------------------------------------------------
// TestParseModule_Scope
// ---------------------------------------------------------------------------

func TestParseModule_Scope(t *testing.T) {
	m := parseFixture(t, "testdata/fixtures/plots.py")

	t.Run("aliased imports", func(t *testing.T) {
		b, ok := m.Scope.Lookup("np")
		require.True(t, ok, "np should be bound")
		assert.Equal(t, BindImport, b.Kind)
		assert.Equal(t, "numpy", b.Import.Module)
		assert.Equal(t, "np", b.Import.Alias)

		b, ok = m.Scope.Lookup("plt")
		require.True(t, ok, "plt should be bound")
		assert.Equal(t, "matplotlib.pyplot", b.Import.Module)
		assert.Equal(t, "import matplotlib.pyplot as plt", b.Import.Statement())
	})

	t.Run("dotted import binds root package", func(t *testing.T) {
		b, ok := m.Scope.Lookup("os")
		require.True(t, ok, "import os.path should bind os")
		assert.Equal(t, BindImport, b.Kind)
		assert.Equal(t, "os.path", b.Import.Module)

		_, ok = m.Scope.Lookup("os.path")
		assert.False(t, ok, "the dotted path itself is not a name")
	})

	t.Run("from import", func(t *testing.T) {
		b, ok := m.Scope.Lookup("sqrt")
		require.True(t, ok, "sqrt should be bound")
		assert.Equal(t, BindImport, b.Kind)
		assert.Equal(t, "math", b.Import.Module)
		assert.Equal(t, "sqrt", b.Import.Name)
		assert.Equal(t, "from math import sqrt", b.Import.Statement())
	})

	t.Run("units", func(t *testing.T) {
		b, ok := m.Scope.Lookup("smooth")
		require.True(t, ok)
		assert.Equal(t, BindUnit, b.Kind)
		assert.Equal(t, UnitFunction, b.Unit.Kind)

		b, ok = m.Scope.Lookup("AxisStyler")
		require.True(t, ok)
		assert.Equal(t, BindUnit, b.Kind)
		assert.Equal(t, UnitClass, b.Unit.Kind)
	})

	t.Run("globals", func(t *testing.T) {
		b, ok := m.Scope.Lookup("PALETTE")
		require.True(t, ok)
		assert.Equal(t, BindGlobal, b.Kind)
		assert.Contains(t, b.Global.Statement, "PALETTE = [")

		require.Len(t, m.Globals, 2)
		assert.Equal(t, "PALETTE", m.Globals[0].Name)
		assert.Equal(t, "LINE_WIDTH", m.Globals[1].Name)
		assert.Empty(t, m.Globals[0].FreeNames, "literal values read nothing")
	})
}

func TestParseModule_GlobalFreeNames(t *testing.T) {
	m := parseSource(t, `import numpy as np

STEPS = 3
OFFSETS = np.linspace(0, STEPS, num=STEPS)
`)

	require.Len(t, m.Globals, 2)
	assert.Empty(t, m.Globals[0].FreeNames)
	assert.Equal(t, []string{"STEPS", "np"}, m.Globals[1].FreeNames,
		"the assigned expression reads np and STEPS")
}

func TestParseModule_RelativeImport(t *testing.T) {
	m := parseFixture(t, "testdata/fixtures/edge_cases.py")

	b, ok := m.Scope.Lookup("accent")
	require.True(t, ok)
	assert.Equal(t, BindImport, b.Kind)
	assert.True(t, b.Import.Relative(), "dotted-prefix module is package-relative")
}

func TestParseModule_MultiTargetAssignment(t *testing.T) {
	m := parseSource(t, "WIDTH = HEIGHT = 4\nfig.dpi = 100\n")

	_, ok := m.Scope.Lookup("WIDTH")
	assert.True(t, ok)
	_, ok = m.Scope.Lookup("HEIGHT")
	assert.True(t, ok)

	// Attribute targets mutate an existing object; they bind nothing.
	_, ok = m.Scope.Lookup("fig")
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// TestModule_Unit
// ---------------------------------------------------------------------------

func TestModule_Unit(t *testing.T) {
	m := parseFixture(t, "testdata/fixtures/plots.py")

	u, err := m.Unit("plot_trend")
	require.NoError(t, err)
	assert.Equal(t, "plot_trend", u.Name)
	assert.Contains(t, u.Source, "def plot_trend(data):")
	assert.Greater(t, u.StartLine(), 0)
	assert.GreaterOrEqual(t, u.EndLine(), u.StartLine())

	_, err = m.Unit("no_such_function")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable), "missing unit should wrap ErrSourceUnavailable")
}

func TestModule_UnitNames(t *testing.T) {
	m := parseFixture(t, "testdata/fixtures/plots.py")

	assert.Equal(t, []string{
		"zscore", "smooth", "blend", "shade", "AxisStyler",
		"plot_trend", "plot_histogram", "plot_bands",
	}, m.UnitNames(), "unit names should be in source order")
}

func TestModule_DecoratedUnit(t *testing.T) {
	m := parseSource(t, "@cached\ndef f(x):\n    return x\n")

	u, err := m.Unit("f")
	require.NoError(t, err)
	assert.Contains(t, u.Source, "@cached", "unit source includes decorators")
}

// ---------------------------------------------------------------------------
// TestUnit_ReturnsValue
// ---------------------------------------------------------------------------

func TestUnit_ReturnsValue(t *testing.T) {
	m := parseFixture(t, "testdata/fixtures/plots.py")

	tests := []struct {
		unit string
		want bool
	}{
		{"plot_trend", true},
		{"plot_bands", true},
		{"plot_histogram", false},
		{"blend", true},
		{"AxisStyler", false}, // classes never return a value
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			u, err := m.Unit(tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.ReturnsValue())
		})
	}
}

func TestUnit_ReturnsValue_IgnoresNestedScopes(t *testing.T) {
	m := parseSource(t, `def f(x):
    def inner():
        return 1
    inner()
`)
	u, err := m.Unit("f")
	require.NoError(t, err)
	assert.False(t, u.ReturnsValue(), "a return inside a nested function does not count")
}

// ---------------------------------------------------------------------------
// TestParseOverrideUnit
// ---------------------------------------------------------------------------

func TestParseOverrideUnit(t *testing.T) {
	u, err := ParseOverrideUnit("<override>", []byte(`import numpy as np


def shift(values, delta):
    return np.asarray(values) + delta
`))
	require.NoError(t, err)
	defer u.Module.Close()

	assert.Equal(t, "shift", u.Name)
	assert.Equal(t, []string{"np"}, u.FreeNames())

	// The snippet's own imports form its defining scope.
	b, ok := u.Module.Scope.Lookup("np")
	require.True(t, ok)
	assert.Equal(t, BindImport, b.Kind)
}

func TestParseOverrideUnit_NoDefinition(t *testing.T) {
	_, err := ParseOverrideUnit("<override>", []byte("x = 1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}

// ---------------------------------------------------------------------------
// TestImportRecord_Statement
// ---------------------------------------------------------------------------

func TestImportRecord_Statement(t *testing.T) {
	tests := []struct {
		name string
		rec  ImportRecord
		want string
	}{
		{"plain", ImportRecord{Module: "matplotlib"}, "import matplotlib"},
		{"aliased", ImportRecord{Module: "numpy", Alias: "np"}, "import numpy as np"},
		{"from", ImportRecord{Module: "math", Name: "sqrt"}, "from math import sqrt"},
		{"from aliased", ImportRecord{Module: "collections", Name: "OrderedDict", Alias: "OD"}, "from collections import OrderedDict as OD"},
		{"redundant alias", ImportRecord{Module: "math", Name: "sqrt", Alias: "sqrt"}, "from math import sqrt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Statement())
		})
	}
}
