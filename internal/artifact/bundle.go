// Package artifact writes the on-disk figure bundle: the data
// snapshot, the assembled script, and the rendered figure.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Bundle describes one artifact directory:
//
//	<figures-dir>/<name>/
//	  data.csv       serialized dataset
//	  <name>.<fmt>   rendered figure
//	  code.py        assembled, standalone script
//
// A bundle is written wholesale per invocation; re-running overwrites
// every file. Concurrent invocations on the same directory are not
// arbitrated.
type Bundle struct {
	Dir        string // artifact directory
	DataPath   string
	ScriptPath string
	FigurePath string
}

// Write creates the artifact directory and writes the data snapshot and
// script, then asks the renderer to produce the figure. A nil renderer
// skips rendering (the script and data still land on disk).
func Write(ctx context.Context, b Bundle, data *Dataset, script string, renderer Renderer) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", b.Dir, err)
	}

	if data != nil {
		if err := data.WriteCSV(b.DataPath); err != nil {
			return err
		}
	}

	if err := os.WriteFile(b.ScriptPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("write script %s: %w", b.ScriptPath, err)
	}

	if renderer != nil {
		if err := renderer.Render(ctx, b.ScriptPath); err != nil {
			return err
		}
	}
	return nil
}

// CopyDataFile snapshots an existing CSV file into the bundle without
// reparsing it, for callers that already have the data on disk.
func CopyDataFile(b Bundle, srcPath string) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", b.Dir, err)
	}
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read data file %s: %w", srcPath, err)
	}
	if err := os.WriteFile(b.DataPath, data, 0o644); err != nil {
		return fmt.Errorf("write data snapshot %s: %w", b.DataPath, err)
	}
	return nil
}

// Exists reports whether every bundle file is present on disk.
func (b Bundle) Exists() bool {
	for _, p := range []string{b.DataPath, b.ScriptPath, b.FigurePath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// At builds the Bundle paths for a figure name under figuresDir.
func At(figuresDir, name, format string) Bundle {
	dir := filepath.Join(figuresDir, name)
	return Bundle{
		Dir:        dir,
		DataPath:   filepath.Join(dir, "data.csv"),
		ScriptPath: filepath.Join(dir, "code.py"),
		FigurePath: filepath.Join(dir, name+"."+format),
	}
}
