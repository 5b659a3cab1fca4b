package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// SliceBands cuts a tall PNG into consecutive bands of bandHeight pixels.
// The last band is padded with white to full height. Band edges ignore
// section boundaries.
func SliceBands(tall []byte, bandHeight int) ([][]byte, error) {
	if bandHeight <= 0 {
		return nil, fmt.Errorf("slice bands: band height %d", bandHeight)
	}
	src, err := png.Decode(bytes.NewReader(tall))
	if err != nil {
		return nil, fmt.Errorf("slice bands: decode: %w", err)
	}
	b := src.Bounds()
	if b.Dy() == 0 || b.Dx() == 0 {
		return nil, fmt.Errorf("slice bands: empty image")
	}

	var bands [][]byte
	for top := b.Min.Y; top < b.Max.Y; top += bandHeight {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), bandHeight))
		draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		draw.Draw(dst, dst.Bounds(), src, image.Pt(b.Min.X, top), draw.Src)

		var buf bytes.Buffer
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("slice bands: encode: %w", err)
		}
		bands = append(bands, buf.Bytes())
	}
	return bands, nil
}
