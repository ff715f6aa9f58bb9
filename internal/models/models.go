// Package models exports dependent models by running an external converter.
package models

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/internal/export"
)

// ErrNoModelCommand is returned when no converter command is configured.
var ErrNoModelCommand = errors.New("no model export command configured")

// Placeholders substituted in command arguments.
const (
	RefPlaceholder    = "{ref}"
	OutDirPlaceholder = "{outdir}"
)

// CommandExporter runs a converter command once per dependent model. The
// converter is expected to write <id>.obj or <lower base name>.obj into the
// output directory.
type CommandExporter struct {
	command []string
	log     *zap.Logger
}

// NewCommandExporter creates an exporter for the given command line.
func NewCommandExporter(command []string, log *zap.Logger) *CommandExporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandExporter{
		command: command,
		log:     log,
	}
}

// ExportModel runs the converter for ref.
func (c *CommandExporter) ExportModel(ref export.FileRef, outDir string) error {
	if len(c.command) == 0 {
		return ErrNoModelCommand
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	args := ExpandArgs(c.command, ref.String(), outDir)
	c.log.Debug("Exporting dependent model", zap.Stringer("model", ref), zap.Strings("command", args))

	cmd := exec.Command(args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("exporting model %s: %w: %s", ref, err, msg)
		}
		return fmt.Errorf("exporting model %s: %w", ref, err)
	}
	return nil
}

// ExpandArgs substitutes the placeholders in every argument.
func ExpandArgs(command []string, ref, outDir string) []string {
	r := strings.NewReplacer(RefPlaceholder, ref, OutDirPlaceholder, outDir)
	args := make([]string, len(command))
	for i, arg := range command {
		args[i] = r.Replace(arg)
	}
	return args
}
