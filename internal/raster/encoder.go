package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG writes img as a PNG. Output is deterministic for a given image.
func EncodePNG(w io.Writer, img image.Image) error {
	return pngEncoder.Encode(w, img)
}

// PNGBytes encodes img as a PNG in memory.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG encodes img and writes it to path, returning the number of bytes
// written.
func SavePNG(path string, img image.Image) (int, error) {
	data, err := PNGBytes(img)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(data), nil
}
