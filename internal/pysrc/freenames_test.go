package pysrc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// freeNamesOf parses a snippet and returns the free names of unit name.
func freeNamesOf(t *testing.T, source, name string) []string {
	t.Helper()
	m := parseSource(t, source)
	u, err := m.Unit(name)
	require.NoError(t, err)
	return u.FreeNames()
}

func TestFreeNames(t *testing.T) {
	tests := []struct {
		name   string
		source string
		unit   string
		want   []string
	}{
		{
			name: "parameters are bound",
			source: `def f(a, b):
    return a + b + c
`,
			unit: "f",
			want: []string{"c"},
		},
		{
			name: "defaults evaluate in the enclosing scope",
			source: `def f(a, w=WIDTH):
    return a * w
`,
			unit: "f",
			want: []string{"WIDTH"},
		},
		{
			name: "annotations evaluate in the enclosing scope",
			source: `def f(a: Vec) -> Mat:
    return a
`,
			unit: "f",
			want: []string{"Mat", "Vec"},
		},
		{
			name: "assigned anywhere means local everywhere",
			source: `def f():
    y = x
    x = 1
    return y
`,
			unit: "f",
			want: []string{},
		},
		{
			name: "only the base of dotted access is a dependency",
			source: `def f(d):
    return d.mean() + np.std(d)
`,
			unit: "f",
			want: []string{"np"},
		},
		{
			name: "keyword argument names are not reads",
			source: `def f(d):
    plot(d, color=RED)
`,
			unit: "f",
			want: []string{"RED", "plot"},
		},
		{
			name: "comprehension targets stay inside the comprehension",
			source: `def f(xs):
    return [g(x) for x in xs]
`,
			unit: "f",
			want: []string{"g"},
		},
		{
			name: "comprehension targets do not leak out",
			source: `def f(xs):
    ys = [x * 2 for x in xs]
    return ys + [x]
`,
			unit: "f",
			want: []string{"x"},
		},
		{
			name: "lambda parameters are bound in the lambda only",
			source: `def f(xs):
    return sorted(xs, key=lambda v: weight(v))
`,
			unit: "f",
			want: []string{"sorted", "weight"},
		},
		{
			name: "nested definitions contribute their free names",
			source: `def f(d):
    def inner(v):
        return scale * v
    return inner(d)
`,
			unit: "f",
			want: []string{"scale"},
		},
		{
			name: "global declaration forces the name free",
			source: `def f():
    global counter
    counter = counter + 1
`,
			unit: "f",
			want: []string{"counter"},
		},
		{
			name: "loop and with targets are bound",
			source: `def f(rows):
    total = 0
    for r in rows:
        total += r
    with open('p') as fh:
        fh.read()
    return total
`,
			unit: "f",
			want: []string{"open"},
		},
		{
			name: "except capture is bound",
			source: `def f(d):
    try:
        return parse(d)
    except ValueError as exc:
        return str(exc)
`,
			unit: "f",
			want: []string{"ValueError", "parse", "str"},
		},
		{
			name: "function-local imports are bound",
			source: `def f(d):
    import numpy as local_np
    from math import ceil
    return local_np.round(ceil(d))
`,
			unit: "f",
			want: []string{},
		},
		{
			name: "decorators evaluate in the enclosing scope",
			source: `@cached
def f(d):
    return d
`,
			unit: "f",
			want: []string{"cached"},
		},
		{
			name: "walrus target is bound",
			source: `def f(xs):
    if (n := len(xs)) > limit:
        return n
    return 0
`,
			unit: "f",
			want: []string{"len", "limit"},
		},
		{
			name: "splat parameters are bound",
			source: `def f(*args, **kwargs):
    return args, kwargs
`,
			unit: "f",
			want: []string{},
		},
		{
			name: "self-recursion surfaces the unit's own name",
			source: `def f(n):
    if n == 0:
        return 1
    return f(n - 1)
`,
			unit: "f",
			want: []string{"f"},
		},
		{
			name: "class superclasses and method bodies merge upward",
			source: `class C(Base):
    def m(self, w=W):
        return helper(w)
`,
			unit: "C",
			want: []string{"Base", "W", "helper"},
		},
		{
			name: "multi-target and unpacking assignments bind every name",
			source: `def f(pairs):
    a = b = 0
    x, (y, z) = pairs
    return a + b + x + y + z + w
`,
			unit: "f",
			want: []string{"w"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := freeNamesOf(t, tt.source, tt.unit)
			if len(tt.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFreeNames_Fixture(t *testing.T) {
	m := parseFixture(t, "testdata/fixtures/plots.py")

	tests := []struct {
		unit string
		want []string
	}{
		{"zscore", []string{"np"}},
		{"smooth", []string{"np", "zscore"}},
		{"blend", []string{"shade"}},
		{"shade", []string{"blend"}},
		{"AxisStyler", []string{"LINE_WIDTH"}},
		{"plot_trend", []string{"AxisStyler", "PALETTE", "plt", "smooth"}},
		{"plot_histogram", []string{"PALETTE", "int", "len", "plt", "sqrt"}},
		{"plot_bands", []string{"PALETTE", "blend", "plt"}},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			u, err := m.Unit(tt.unit)
			require.NoError(t, err)
			require.Equal(t, tt.want, u.FreeNames())
		})
	}
}
