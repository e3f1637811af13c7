package sheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/auctionhouse/backend/internal/infrastructure/imagestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func testInfo() BatchInfo {
	return BatchInfo{
		BatchCode:     "250824_A",
		ConsignorName: "山田",
		ItemCount:     2,
		GeneratedAt:   time.Date(2025, 8, 24, 10, 30, 0, 0, time.UTC),
	}
}

func TestWorkbookBuilderBuild(t *testing.T) {
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "a", "240824_A_1.png"), 300, 200)
	resolver := imagestore.NewFSResolver(root, t.TempDir())

	sp := 120000.0
	rows := []Row{
		{Code: "240824_A_1", Name: "茶碗", StartingPrice: &sp, ImagePath: "/files/system/a/240824_A_1.png"},
		{Code: "240824_A_2", Name: "掛軸", Notes: "箱あり", ImagePath: "/files/system/a/missing.jpg"},
	}

	b := NewWorkbookBuilder(nil, resolver)
	data, err := b.Build(testInfo(), rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "批次清单"

	t.Run("banner and summary", func(t *testing.T) {
		title, err := f.GetCellValue(sheet, "A1")
		require.NoError(t, err)
		assert.Equal(t, "吉祥オークション", title)

		name, err := f.GetCellValue(sheet, "A2")
		require.NoError(t, err)
		assert.Equal(t, "     山田 様", name)

		count, err := f.GetCellValue(sheet, "E2")
		require.NoError(t, err)
		assert.Equal(t, "总件数：2", count)
	})

	t.Run("compound header", func(t *testing.T) {
		for cell, want := range map[string]string{
			"A4": "内部编号", "B4": "图片", "C4": "名称",
			"D4": "起拍价", "E4": "底价", "F4": "备注",
			"D5": "（万日元）", "E5": "（万日元）",
		} {
			got, err := f.GetCellValue(sheet, cell)
			require.NoError(t, err)
			assert.Equal(t, want, got, cell)
		}
	})

	t.Run("data rows in place", func(t *testing.T) {
		code, err := f.GetCellValue(sheet, "A6")
		require.NoError(t, err)
		assert.Equal(t, "240824_A_1", code)

		name, err := f.GetCellValue(sheet, "C7")
		require.NoError(t, err)
		assert.Equal(t, "掛軸", name)
	})

	t.Run("resolvable image is embedded", func(t *testing.T) {
		pics, err := f.GetPictures(sheet, "B6")
		require.NoError(t, err)
		assert.Len(t, pics, 1)

		placeholder, err := f.GetCellValue(sheet, "B6")
		require.NoError(t, err)
		assert.Empty(t, placeholder)
	})

	t.Run("missing image leaves placeholder and does not abort", func(t *testing.T) {
		placeholder, err := f.GetCellValue(sheet, "B7")
		require.NoError(t, err)
		assert.Equal(t, "(无图片或加载失败)", placeholder)
	})

	t.Run("square data rows", func(t *testing.T) {
		h, err := f.GetRowHeight(sheet, 6)
		require.NoError(t, err)
		assert.InDelta(t, PxToPt(100), h, 0.01)
	})
}

func TestWorkbookBuilderEmptyBatch(t *testing.T) {
	b := NewWorkbookBuilder(nil, imagestore.NewFSResolver(t.TempDir(), t.TempDir()))
	data, err := b.Build(testInfo(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestUnavailableBuilder(t *testing.T) {
	_, err := Unavailable{}.Build(testInfo(), nil)
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, ErrCodeDependencyMissing, buildErr.Code)
}
