package sheet

import "math"

// Pixel geometry for spreadsheet cells at 96 dpi. Column widths are in
// Excel's character units, row heights in points; pictures are anchored in
// EMU (914400 per inch, 9525 per pixel).
const (
	// EMUPerPx is the number of EMU per pixel at 96 dpi.
	EMUPerPx = 9525
	// DefaultColWidthChars is Excel's default column width.
	DefaultColWidthChars = 8.43
	// DefaultRowHeightPt is Excel's default row height.
	DefaultRowHeightPt = 15.0
)

// PtToPx converts points to pixels at 96 dpi.
func PtToPx(pt float64) float64 {
	return pt * 96.0 / 72.0
}

// PxToPt converts pixels to points at 96 dpi.
func PxToPt(px float64) float64 {
	return px * 72.0 / 96.0
}

// ColWidthToPx converts a column width in character units to pixels using
// the standard approximation px = 7*width + 5.
func ColWidthToPx(w float64) int {
	return int(math.Round(7.0*w + 5.0))
}

// PxToColWidth is the inverse of ColWidthToPx, rounded to two decimals and
// never below one character.
func PxToColWidth(px int) float64 {
	w := math.Round((float64(px)-5.0)/7.0*100.0) / 100.0
	if w < 1 {
		return 1
	}
	return w
}

// CellBox is the pixel box of one cell: column width times row height.
type CellBox struct {
	W int
	H int
}

// NewCellBox computes a cell's pixel box from its column width in character
// units and row height in points. Zero values fall back to Excel defaults.
func NewCellBox(colWidthChars, rowHeightPt float64) CellBox {
	if colWidthChars <= 0 {
		colWidthChars = DefaultColWidthChars
	}
	if rowHeightPt <= 0 {
		rowHeightPt = DefaultRowHeightPt
	}
	return CellBox{
		W: ColWidthToPx(colWidthChars),
		H: int(math.Round(PtToPx(rowHeightPt))),
	}
}

// Placement is a fitted picture inside a cell box: scaled size plus the
// offsets that center it.
type Placement struct {
	W    int
	H    int
	OffX int
	OffY int
}

// Fit scales an image of imgW x imgH pixels into box preserving aspect ratio
// ("contain": the minimum of the two axis ratios) and centers it. With
// allowUpscale false the image is never rendered above its natural size.
func Fit(imgW, imgH int, box CellBox, allowUpscale bool) Placement {
	if imgW < 1 {
		imgW = 1
	}
	if imgH < 1 {
		imgH = 1
	}
	scale := math.Min(float64(box.W)/float64(imgW), float64(box.H)/float64(imgH))
	if !allowUpscale && scale > 1 {
		scale = 1
	}
	w := int(math.Round(float64(imgW) * scale))
	h := int(math.Round(float64(imgH) * scale))
	offX := (box.W - w) / 2
	offY := (box.H - h) / 2
	if offX < 0 {
		offX = 0
	}
	if offY < 0 {
		offY = 0
	}
	return Placement{W: w, H: h, OffX: offX, OffY: offY}
}
