package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/refig/internal/pysrc"
)

const scopeSource = `import numpy as np
from .palette import accent

SCALE = 2.0


def helper(x):
    return x * SCALE
`

func testScope(t *testing.T) pysrc.Scope {
	t.Helper()
	m, err := pysrc.ParseModule("<test>", []byte(scopeSource))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m.Scope
}

func TestResolve(t *testing.T) {
	scope := testScope(t)

	t.Run("import", func(t *testing.T) {
		sym := Resolve("np", scope)
		assert.Equal(t, KindImport, sym.Kind)
		assert.Equal(t, "import numpy as np", sym.Import.Statement())
	})

	t.Run("unit", func(t *testing.T) {
		sym := Resolve("helper", scope)
		assert.Equal(t, KindUnit, sym.Kind)
		require.NotNil(t, sym.Unit)
		assert.Equal(t, "helper", sym.Unit.Name)
	})

	t.Run("global", func(t *testing.T) {
		sym := Resolve("SCALE", scope)
		assert.Equal(t, KindGlobal, sym.Kind)
		assert.Equal(t, "SCALE = 2.0", sym.Global.Statement)
	})

	t.Run("builtin", func(t *testing.T) {
		sym := Resolve("len", scope)
		assert.Equal(t, KindBuiltin, sym.Kind)
	})

	t.Run("relative import is ambiguous", func(t *testing.T) {
		sym := Resolve("accent", scope)
		assert.Equal(t, KindAmbiguous, sym.Kind)
	})

	t.Run("unresolved", func(t *testing.T) {
		sym := Resolve("no_such_name", scope)
		assert.Equal(t, KindUnresolved, sym.Kind)
	})

	t.Run("module scope shadows builtins", func(t *testing.T) {
		m, err := pysrc.ParseModule("<test>", []byte("def list(xs):\n    return xs\n"))
		require.NoError(t, err)
		defer m.Close()

		sym := Resolve("list", m.Scope)
		assert.Equal(t, KindUnit, sym.Kind, "a user definition wins over the builtin")
	})
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"len", "print", "range", "ValueError", "True", "None", "isinstance", "__name__"} {
		assert.True(t, IsBuiltin(name), "%s should be a builtin", name)
	}
	for _, name := range []string{"np", "DataFrame", "plot_trend", ""} {
		assert.False(t, IsBuiltin(name), "%s should not be a builtin", name)
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Kind: DiagUnresolved, Name: "mystery", Unit: "plot_missing"}
	assert.Equal(t, `unresolved-dependency: "mystery" in plot_missing`, d.String())

	d = Diagnostic{Kind: DiagAmbiguousImport, Name: "accent", Unit: "plot_relative", Detail: "from .palette import accent"}
	assert.Equal(t, `ambiguous-import-path: "accent" in plot_relative (from .palette import accent)`, d.String())
}
