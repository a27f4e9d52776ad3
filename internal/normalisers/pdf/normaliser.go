// Package pdf extracts text from PDF files using poppler's pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Extractor = (*Normaliser)(nil)

// toolName is the external binary used for extraction.
const toolName = "pdftotext"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext not found in PATH", domain.ErrExtraction)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a PDF normaliser that shells out to pdftotext.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}, lookPath: exec.LookPath}
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
// The tool is assumed to be present.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{
		runner:   runner,
		lookPath: func(name string) (string, error) { return name, nil },
	}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{"pdf"}
}

// Extract runs pdftotext on the file and returns its output.
// Page breaks (form feeds) become blank lines.
func (n *Normaliser) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	if _, err := n.lookPath(toolName); err != nil {
		return "", fmt.Errorf("%w. %s", ErrPDFToolNotFound, InstallInstructions())
	}

	out, err := n.runner.Run(ctx, toolName, "-enc", "UTF-8", "-q", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed: %w", domain.ErrExtraction, err)
	}

	text := plaintext.Normalise(out)
	text = strings.ReplaceAll(text, "\f", "\n\n")
	return strings.TrimSpace(text), nil
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return "Install pdftotext (poppler): 'brew install poppler' on macOS, " +
		"'apt install poppler-utils' on Debian/Ubuntu"
}

// IsToolMissing reports whether err is due to pdftotext not being installed.
func IsToolMissing(err error) bool {
	return errors.Is(err, ErrPDFToolNotFound)
}
