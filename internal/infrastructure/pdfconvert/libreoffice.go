package pdfconvert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinaryPath = "soffice"
	defaultTimeout    = 120 * time.Second

	// calc's PDF export filter honors each sheet's print area, matching
	// what printing the workbook would produce.
	convertFilter = "pdf:calc_pdf_Export"
)

// LibreOfficeConfig contains configuration for the LibreOffice converter
type LibreOfficeConfig struct {
	// BinaryPath is the path to the soffice binary; searched in PATH when
	// not absolute
	BinaryPath string
	// DefaultTimeout bounds a single conversion; on expiry the host
	// process is killed
	DefaultTimeout time.Duration
	// TempDir for the conversion working directory
	TempDir string
	// Logger for debug output
	Logger *zap.Logger
}

// LibreOfficeConverter converts spreadsheets to PDF with a headless
// LibreOffice host. Conversions are serialized: the office host keeps
// per-process automation state that concurrent invocations would clobber.
type LibreOfficeConverter struct {
	config *LibreOfficeConfig
	logger *zap.Logger
	mu     sync.Mutex
}

// NewLibreOfficeConverter creates a LibreOffice-based converter, verifying
// the binary exists up front so a missing host surfaces at startup rather
// than on the first export.
func NewLibreOfficeConverter(config *LibreOfficeConfig) (*LibreOfficeConverter, error) {
	if config == nil {
		config = &LibreOfficeConfig{}
	}
	if config.BinaryPath == "" {
		config.BinaryPath = defaultBinaryPath
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultTimeout
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}

	binaryPath, err := resolveBinaryPath(config.BinaryPath)
	if err != nil {
		return nil, NewConvertError(ErrCodeBinaryNotFound,
			fmt.Sprintf("office host binary not found: %s", config.BinaryPath), err)
	}
	config.BinaryPath = binaryPath

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LibreOfficeConverter{config: config, logger: logger}, nil
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Convert implements Converter.
func (c *LibreOfficeConverter) Convert(ctx context.Context, xlsxPath, pdfPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(xlsxPath); err != nil {
		return NewConvertError(ErrCodeSourceNotFound,
			fmt.Sprintf("spreadsheet not found: %s", xlsxPath), err)
	}
	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return NewConvertError(ErrCodeConvertFailed, "create output directory", err)
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.config.DefaultTimeout)
	defer cancel()

	// The host writes {stem}.pdf into outdir; convert in a private working
	// directory, then move the result to its final location.
	outDir, err := os.MkdirTemp(c.config.TempDir, "xlsx2pdf-*")
	if err != nil {
		return NewConvertError(ErrCodeConvertFailed, "create work directory", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		"--headless",
		"--norestore",
		"--nolockcheck",
		"--convert-to", convertFilter,
		"--outdir", outDir,
		xlsxPath,
	}

	c.logger.Debug("executing office host",
		zap.String("binary", c.config.BinaryPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, c.config.BinaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewConvertError(ErrCodeConvertTimeout,
				fmt.Sprintf("PDF conversion timed out after %v", c.config.DefaultTimeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return NewConvertError(ErrCodeConvertTimeout, "PDF conversion was cancelled", err)
		}

		c.logger.Error("office host failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
			zap.String("stdout", stdout.String()))
		return NewConvertError(ErrCodeConvertFailed,
			"office host execution failed: "+strings.TrimSpace(stderr.String()), err)
	}

	stem := strings.TrimSuffix(filepath.Base(xlsxPath), filepath.Ext(xlsxPath))
	produced := filepath.Join(outDir, stem+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return NewConvertError(ErrCodeFileNotProduced,
			"office host reported success but produced no PDF", err)
	}

	if err := movePDF(produced, pdfPath); err != nil {
		return NewConvertError(ErrCodeConvertFailed, "move PDF to output path", err)
	}

	c.logger.Info("PDF converted",
		zap.String("output", pdfPath),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

// movePDF renames when possible and falls back to copy for cross-device
// moves (temp dir and export dir may be on different filesystems).
func movePDF(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

var _ Converter = (*LibreOfficeConverter)(nil)
