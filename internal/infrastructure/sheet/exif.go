package sheet

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// NormalizeOrientation rewrites a JPEG so that its pixels match the EXIF
// orientation tag, re-encoding at high quality. Images without an
// orientation tag (or in formats that carry none) are returned unchanged, so
// the common case costs one header parse and no re-encode.
func NormalizeOrientation(raw []byte) []byte {
	orientation := exifOrientation(raw)
	if orientation <= 1 {
		return raw
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return raw
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return raw
	}
	return buf.Bytes()
}

// exifOrientation returns the EXIF orientation tag value, or 0 when absent.
func exifOrientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}

// decodeDimensions reads the natural pixel size and format of an encoded
// image without decoding the full bitmap.
func decodeDimensions(raw []byte) (w, h int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, "", err
	}
	return cfg.Width, cfg.Height, format, nil
}
