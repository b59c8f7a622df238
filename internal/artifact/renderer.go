package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Renderer produces the figure file from an assembled script. The
// bundle writer treats rendering as opaque: the renderer owns encoding
// pixels or vector data to disk.
type Renderer interface {
	Render(ctx context.Context, scriptPath string) error
}

// PythonRenderer renders by executing the assembled script with a
// Python interpreter. Running the script is exactly what an end user
// does to reproduce the figure, so rendering doubles as a round-trip
// check of the emitted code.
type PythonRenderer struct {
	Python string // interpreter binary, default "python"
}

// Render executes the script and surfaces interpreter stderr on failure.
func (r PythonRenderer) Render(ctx context.Context, scriptPath string) error {
	python := r.Python
	if python == "" {
		python = "python"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, scriptPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("render %s with %s: %w\n%s", scriptPath, python, err, stderr.String())
	}
	return nil
}

// Formatter optionally reformats the assembled script in place.
type Formatter interface {
	Format(ctx context.Context, scriptPath string) error
}

// BlackFormatter runs the black code formatter. Formatting is cosmetic;
// callers treat failures as non-fatal.
type BlackFormatter struct {
	Binary string // default "black"
}

// Format rewrites the script with black.
func (f BlackFormatter) Format(ctx context.Context, scriptPath string) error {
	binary := f.Binary
	if binary == "" {
		binary = "black"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, scriptPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("format %s with %s: %w\n%s", scriptPath, binary, err, stderr.String())
	}
	return nil
}
