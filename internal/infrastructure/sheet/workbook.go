package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/auctionhouse/backend/internal/infrastructure/imagestore"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultImageCellPx = 100
	defaultTitle       = "吉祥オークション"
	defaultFontName    = "微软雅黑"
	defaultUnitLabel   = "（万日元）"
	defaultSheetName   = "批次清单"

	// placeholderText is written into the image cell when the photo is
	// missing or unreadable; a bad image never aborts the export.
	placeholderText = "(无图片或加载失败)"

	paperSizeA4   = 9
	headerRow     = 4
	unitRow       = 5
	firstDataRow  = 6
	logoTargetHPx = 36
)

var columnHeaders = []string{"内部编号", "图片", "名称", "起拍价", "底价", "备注"}

// Config contains configuration for the workbook builder
type Config struct {
	// ImageCellPx is the side length of the square image cell in pixels
	ImageCellPx int
	// AllowUpscale permits rendering images above their natural size
	AllowUpscale bool
	// Title is the banner printed on row one
	Title string
	// FontName is used for every cell plus the header/footer bands
	FontName string
	// UnitLabel is the small currency annotation under the price headers
	UnitLabel string
	// SheetName names the single worksheet
	SheetName string
	// LogoPath points at an optional logo embedded in the page header;
	// skipped when the file does not exist
	LogoPath string
	// Logger for debug output
	Logger *zap.Logger
}

// WorkbookBuilder renders batch sheets with excelize.
type WorkbookBuilder struct {
	cfg      *Config
	resolver imagestore.Resolver
	logger   *zap.Logger
}

// NewWorkbookBuilder creates a workbook builder. A nil config selects the
// layout the print shop calibrated: 100 px square image cells, upscaling on.
func NewWorkbookBuilder(cfg *Config, resolver imagestore.Resolver) *WorkbookBuilder {
	if cfg == nil {
		cfg = &Config{AllowUpscale: true}
	}
	if cfg.ImageCellPx <= 0 {
		cfg.ImageCellPx = defaultImageCellPx
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.FontName == "" {
		cfg.FontName = defaultFontName
	}
	if cfg.UnitLabel == "" {
		cfg.UnitLabel = defaultUnitLabel
	}
	if cfg.SheetName == "" {
		cfg.SheetName = defaultSheetName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkbookBuilder{cfg: cfg, resolver: resolver, logger: logger}
}

// Build implements Builder.
func (b *WorkbookBuilder) Build(info BatchInfo, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := b.cfg.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "rename sheet", err)
	}

	if err := b.setupPage(f, sheet); err != nil {
		return nil, err
	}
	if err := b.setColumnWidths(f, sheet); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "set column widths", err)
	}

	styles, err := b.newStyles(f)
	if err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "register styles", err)
	}

	if err := b.writeBanner(f, sheet, info, styles); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "write banner", err)
	}
	if err := b.writeHeader(f, sheet, styles); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "write header", err)
	}
	if err := b.writeRows(f, sheet, rows, styles); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "write rows", err)
	}

	// Keep the title band visible while scrolling the item rows.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      unitRow,
		TopLeftCell: fmt.Sprintf("A%d", firstDataRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "freeze panes", err)
	}

	if err := b.setHeaderFooter(f, sheet, info); err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "set header/footer", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewBuildError(ErrCodeBuildFailed, "serialize workbook", err)
	}
	return buf.Bytes(), nil
}

// setupPage applies the fixed print layout: A4 portrait, fit to one page
// wide, centered horizontally, with the banner and header rows repeated on
// every printed page.
func (b *WorkbookBuilder) setupPage(f *excelize.File, sheet string) error {
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        intPtr(paperSizeA4),
		Orientation: strPtr("portrait"),
		FitToWidth:  intPtr(1),
		FitToHeight: intPtr(0),
	}); err != nil {
		return NewBuildError(ErrCodeBuildFailed, "page layout", err)
	}
	if err := f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left:         floatPtr(0.3937),
		Right:        floatPtr(0.3937),
		Top:          floatPtr(0.6),
		Bottom:       floatPtr(0.6),
		Header:       floatPtr(0.3),
		Footer:       floatPtr(0.3),
		Horizontally: boolPtr(true),
	}); err != nil {
		return NewBuildError(ErrCodeBuildFailed, "page margins", err)
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Titles",
		RefersTo: fmt.Sprintf("'%s'!$2:$%d", sheet, unitRow),
		Scope:    sheet,
	}); err != nil {
		return NewBuildError(ErrCodeBuildFailed, "print title rows", err)
	}
	return nil
}

func (b *WorkbookBuilder) setColumnWidths(f *excelize.File, sheet string) error {
	notesWidth := 15.0
	priceWidth := roundTo1(notesWidth * 0.8)
	for col, w := range map[string]float64{
		"A": 14.0,
		"B": PxToColWidth(b.cfg.ImageCellPx),
		"C": 24.0,
		"D": priceWidth,
		"E": priceWidth,
		"F": notesWidth,
	} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

// cellStyles holds the registered style ids used while writing the sheet.
type cellStyles struct {
	title       int
	info        int
	infoCenter  int
	th          int
	thPriceTop  int
	unitBottom  int
	tdCenter    int
	tdLeft      int
	tdPrice     int
	placeholder int
}

func (b *WorkbookBuilder) newStyles(f *excelize.File) (*cellStyles, error) {
	font := b.cfg.FontName
	thin := func(t string) excelize.Border {
		return excelize.Border{Type: t, Color: "000000", Style: 1}
	}
	fullBorder := []excelize.Border{thin("left"), thin("right"), thin("top"), thin("bottom")}
	greyFill := excelize.Fill{Type: "pattern", Color: []string{"F5F5F5"}, Pattern: 1}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	leftWrap := &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}

	s := &cellStyles{}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 16, Bold: true},
		Alignment: center,
	}); err != nil {
		return nil, err
	}
	if s.info, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 11},
		Alignment: leftWrap,
	}); err != nil {
		return nil, err
	}
	if s.infoCenter, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 11},
		Alignment: center,
	}); err != nil {
		return nil, err
	}
	if s.th, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 11, Bold: true},
		Alignment: center,
		Border:    fullBorder,
		Fill:      greyFill,
	}); err != nil {
		return nil, err
	}
	// Price header: bottom border suppressed so the unit row below reads as
	// part of the same cell.
	if s.thPriceTop, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 11, Bold: true},
		Alignment: center,
		Border:    []excelize.Border{thin("left"), thin("right"), thin("top")},
		Fill:      greyFill,
	}); err != nil {
		return nil, err
	}
	if s.unitBottom, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 9},
		Alignment: center,
		Border:    []excelize.Border{thin("left"), thin("right"), thin("bottom")},
		Fill:      greyFill,
	}); err != nil {
		return nil, err
	}
	if s.tdCenter, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 10},
		Alignment: center,
		Border:    fullBorder,
	}); err != nil {
		return nil, err
	}
	if s.tdLeft, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: font, Size: 10},
		Alignment: leftWrap,
		Border:    fullBorder,
	}); err != nil {
		return nil, err
	}
	if s.tdPrice, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Family: font, Size: 10},
		Alignment:    center,
		Border:       fullBorder,
		CustomNumFmt: strPtr("#,##0"),
	}); err != nil {
		return nil, err
	}
	s.placeholder = s.tdCenter
	return s, nil
}

// writeBanner fills rows 1-3: the merged title, the consignor line with the
// item-count summary, and a thin spacer.
func (b *WorkbookBuilder) writeBanner(f *excelize.File, sheet string, info BatchInfo, s *cellStyles) error {
	if err := f.MergeCell(sheet, "A1", "F1"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", b.cfg.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", s.title); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheet, 1, PxToPt(36)); err != nil {
		return err
	}

	if err := f.MergeCell(sheet, "A2", "C2"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "E2", "F2"); err != nil {
		return err
	}
	name := strings.TrimSpace(info.ConsignorName)
	if err := f.SetCellValue(sheet, "A2", fmt.Sprintf("     %s 様", name)); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "E2", fmt.Sprintf("总件数：%d", info.ItemCount)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A2", "C2", s.info); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "E2", "F2", s.infoCenter); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheet, 2, PxToPt(26)); err != nil {
		return err
	}
	return f.SetRowHeight(sheet, 3, PxToPt(8))
}

// writeHeader fills the two-row compound header: labels on row 4, the
// currency unit annotation under the price columns on row 5, and vertical
// merges everywhere else so the pair reads as one header band.
func (b *WorkbookBuilder) writeHeader(f *excelize.File, sheet string, s *cellStyles) error {
	for j, h := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(j+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, s.th); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheet, headerRow, PxToPt(28)); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheet, unitRow, PxToPt(18)); err != nil {
		return err
	}

	for _, col := range []string{"A", "B", "C", "F"} {
		top := fmt.Sprintf("%s%d", col, headerRow)
		bottom := fmt.Sprintf("%s%d", col, unitRow)
		if err := f.MergeCell(sheet, top, bottom); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, top, bottom, s.th); err != nil {
			return err
		}
	}

	for _, col := range []string{"D", "E"} {
		top := fmt.Sprintf("%s%d", col, headerRow)
		bottom := fmt.Sprintf("%s%d", col, unitRow)
		if err := f.SetCellStyle(sheet, top, top, s.thPriceTop); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, bottom, b.cfg.UnitLabel); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, bottom, bottom, s.unitBottom); err != nil {
			return err
		}
	}
	return nil
}

func (b *WorkbookBuilder) writeRows(f *excelize.File, sheet string, rows []Row, s *cellStyles) error {
	for i, row := range rows {
		r := firstDataRow + i

		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Code); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Name); err != nil {
			return err
		}
		if row.StartingPrice != nil {
			if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", r), *row.StartingPrice); err != nil {
				return err
			}
		}
		if row.ReservePrice != nil {
			if err := f.SetCellValue(sheet, fmt.Sprintf("E%d", r), *row.ReservePrice); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.Notes); err != nil {
			return err
		}

		// Square image cell: the row height mirrors the image column width.
		if err := f.SetRowHeight(sheet, r, PxToPt(float64(b.cfg.ImageCellPx))); err != nil {
			return err
		}

		if !b.embedImage(f, sheet, r, row) {
			if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", r), placeholderText); err != nil {
				return err
			}
		}

		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), s.tdCenter); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", r), fmt.Sprintf("C%d", r), s.tdLeft); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("D%d", r), fmt.Sprintf("E%d", r), s.tdPrice); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("F%d", r), fmt.Sprintf("F%d", r), s.tdLeft); err != nil {
			return err
		}
	}
	return nil
}

// embedImage resolves, normalizes and anchors the row's photo into its image
// cell. Returns false when the caller should write the textual placeholder
// instead; image failures are contained per row and never fail the build.
func (b *WorkbookBuilder) embedImage(f *excelize.File, sheet string, r int, row Row) bool {
	if row.ImagePath == "" || b.resolver == nil {
		return false
	}
	fsPath, err := b.resolver.Resolve(row.ImagePath)
	if err != nil {
		b.logger.Debug("image not resolvable", zap.String("item", row.Code), zap.Error(err))
		return false
	}
	raw, err := os.ReadFile(fsPath)
	if err != nil {
		b.logger.Warn("image not readable", zap.String("item", row.Code), zap.Error(err))
		return false
	}

	raw = NormalizeOrientation(raw)
	imgW, imgH, format, err := decodeDimensions(raw)
	if err != nil {
		b.logger.Warn("image not decodable", zap.String("item", row.Code), zap.Error(err))
		return false
	}

	box := NewCellBox(PxToColWidth(b.cfg.ImageCellPx), PxToPt(float64(b.cfg.ImageCellPx)))
	p := Fit(imgW, imgH, box, b.cfg.AllowUpscale)

	cell := fmt.Sprintf("B%d", r)
	err = f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: extensionFor(format, fsPath),
		File:      raw,
		Format: &excelize.GraphicOptions{
			OffsetX:     p.OffX,
			OffsetY:     p.OffY,
			ScaleX:      float64(p.W) / float64(imgW),
			ScaleY:      float64(p.H) / float64(imgH),
			Positioning: "oneCell",
		},
	})
	if err != nil {
		b.logger.Warn("image placement failed", zap.String("item", row.Code), zap.Error(err))
		return false
	}
	return true
}

func (b *WorkbookBuilder) setHeaderFooter(f *excelize.File, sheet string, info BatchInfo) error {
	font := b.cfg.FontName
	left := fmt.Sprintf(`&L&"%s,Regular"&10生成时间：%s`, font, info.GeneratedAt.Format("2006-01-02 15:04"))
	right := fmt.Sprintf(`&R&"%s,Regular"&10批次：%s`, font, info.BatchCode)
	footer := fmt.Sprintf(`&C&"%s,Regular"&10第&P页 / 共&N页`, font)

	center := ""
	if b.logoExists() {
		if err := b.addLogo(f, sheet); err != nil {
			b.logger.Warn("logo embed failed", zap.Error(err))
		} else {
			center = "&C&G"
		}
	}

	return f.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{
		OddHeader: left + center + right,
		OddFooter: footer,
	})
}

func (b *WorkbookBuilder) logoExists() bool {
	if b.cfg.LogoPath == "" {
		return false
	}
	info, err := os.Stat(b.cfg.LogoPath)
	return err == nil && !info.IsDir()
}

// addLogo embeds the logo centered in the page header, scaled down to a
// fixed target height, never up.
func (b *WorkbookBuilder) addLogo(f *excelize.File, sheet string) error {
	raw, err := os.ReadFile(b.cfg.LogoPath)
	if err != nil {
		return err
	}
	w, h, format, err := decodeDimensions(raw)
	if err != nil {
		return err
	}
	scale := 1.0
	if h > logoTargetHPx {
		scale = float64(logoTargetHPx) / float64(h)
	}
	return f.AddHeaderFooterImage(sheet, &excelize.HeaderFooterImageOptions{
		Position:  excelize.HeaderFooterImagePositionCenter,
		File:      raw,
		Extension: extensionFor(format, b.cfg.LogoPath),
		Width:     fmt.Sprintf("%.0fpt", PxToPt(float64(w)*scale)),
		Height:    fmt.Sprintf("%.0fpt", PxToPt(float64(h)*scale)),
	})
}

func extensionFor(format, path string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		return ext
	}
	return ".png"
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

var _ Builder = (*WorkbookBuilder)(nil)
