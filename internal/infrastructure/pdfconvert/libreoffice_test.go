package pdfconvert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibreOfficeConverter(t *testing.T) {
	t.Run("missing absolute binary reports binary not found", func(t *testing.T) {
		_, err := NewLibreOfficeConverter(&LibreOfficeConfig{
			BinaryPath: filepath.Join(t.TempDir(), "no-such-soffice"),
		})
		require.Error(t, err)

		var convErr *ConvertError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, ErrCodeBinaryNotFound, convErr.Code)
	})

	t.Run("missing binary in PATH reports binary not found", func(t *testing.T) {
		_, err := NewLibreOfficeConverter(&LibreOfficeConfig{
			BinaryPath: "definitely-not-a-real-office-host",
		})
		require.Error(t, err)

		var convErr *ConvertError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, ErrCodeBinaryNotFound, convErr.Code)
	})
}

func TestLibreOfficeConverterMissingSource(t *testing.T) {
	// A fake executable stands in for the office host so construction
	// succeeds; the source check fires before the host is ever invoked.
	dir := t.TempDir()
	fake := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	conv, err := NewLibreOfficeConverter(&LibreOfficeConfig{BinaryPath: fake})
	require.NoError(t, err)

	err = conv.Convert(context.Background(), filepath.Join(dir, "gone.xlsx"), filepath.Join(dir, "out.pdf"))
	require.Error(t, err)

	var convErr *ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, ErrCodeSourceNotFound, convErr.Code)
}

func TestLibreOfficeConverterNoOutput(t *testing.T) {
	// Host exits zero without producing a PDF: must surface the
	// file-not-produced condition, not a nil error.
	dir := t.TempDir()
	fake := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	src := filepath.Join(dir, "batch.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("stub"), 0o644))

	conv, err := NewLibreOfficeConverter(&LibreOfficeConfig{BinaryPath: fake, TempDir: dir})
	require.NoError(t, err)

	err = conv.Convert(context.Background(), src, filepath.Join(dir, "out.pdf"))
	require.Error(t, err)

	var convErr *ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, ErrCodeFileNotProduced, convErr.Code)
}

func TestUnavailableConverter(t *testing.T) {
	err := Unavailable{}.Convert(context.Background(), "a.xlsx", "b.pdf")
	require.Error(t, err)

	var convErr *ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, ErrCodeUnavailable, convErr.Code)
}
