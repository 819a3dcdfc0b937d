package ico

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"sort"

	goico "github.com/sergeymakinen/go-ico"

	"github.com/rayzchen/3to4pp/internal/ir"
)

const (
	headerSize = 6
	entrySize  = 16
	typeIcon   = 1
	maxEdge    = 256
)

// FrameOrder returns variants in directory order: the largest (primary)
// first, then the remaining ones by ascending size.
func FrameOrder(variants []ir.Variant) []ir.Variant {
	ordered := append([]ir.Variant(nil), variants...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Size < ordered[j].Size })
	if len(ordered) > 1 {
		last := ordered[len(ordered)-1]
		copy(ordered[1:], ordered[:len(ordered)-1])
		ordered[0] = last
	}
	return ordered
}

// Encode writes variants as one ICO container with the largest variant as
// the first directory entry. The frame payloads (BMP below 256 pixels, PNG at
// 256) are chosen by go-ico.
func Encode(w io.Writer, variants []ir.Variant) error {
	if len(variants) == 0 {
		return fmt.Errorf("ico: no frames to encode")
	}
	if len(variants) > 0xffff {
		return fmt.Errorf("ico: too many frames (%d)", len(variants))
	}

	frames := FrameOrder(variants)
	imgs := make([]image.Image, len(frames))
	for i, v := range frames {
		b := v.Image.Bounds()
		if b.Dx() != v.Size || b.Dy() != v.Size {
			return fmt.Errorf("ico: frame %d is %dx%d, expected %dx%d", v.Size, b.Dx(), b.Dy(), v.Size, v.Size)
		}
		if v.Size > maxEdge {
			return fmt.Errorf("ico: frame %d exceeds %d pixels", v.Size, maxEdge)
		}
		imgs[i] = v.Image
	}

	if err := goico.EncodeAll(w, imgs); err != nil {
		return fmt.Errorf("ico: %w", err)
	}
	return nil
}

// WriteFile encodes variants and writes them to path, returning the file
// size.
func WriteFile(path string, variants []ir.Variant) (int, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, variants); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return buf.Len(), nil
}
