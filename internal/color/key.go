package color

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Key is the flat background color turned transparent by ApplyKey. Only the
// R, G and B channels take part in matching.
type Key struct {
	R, G, B uint8
}

// DefaultKey is the dark grey background of the puzzle artwork.
var DefaultKey = Key{R: 51, G: 51, B: 51}

// Keyed is the value every matched pixel is replaced with: fully transparent
// white.
var Keyed = [4]uint8{255, 255, 255, 0}

// String formats the key as six lowercase hex digits.
func (k Key) String() string {
	return fmt.Sprintf("%02x%02x%02x", k.R, k.G, k.B)
}

// MarshalText implements encoding.TextMarshaler so a Key round-trips through
// YAML and JSON as a hex string.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseKey.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey accepts "333333", "#333333" or "51,51,51".
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return Key{}, fmt.Errorf("key color %q: expected r,g,b", s)
		}
		var ch [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return Key{}, fmt.Errorf("key color %q: channel %d: %w", s, i, err)
			}
			ch[i] = uint8(v)
		}
		return Key{R: ch[0], G: ch[1], B: ch[2]}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Key{}, fmt.Errorf("key color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Key{}, fmt.Errorf("key color %q: %w", s, err)
	}
	return Key{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ApplyKey returns a copy of src in which every pixel whose R, G and B equal
// k exactly is replaced by Keyed. Alpha is not compared, and unmatched pixels
// keep their original bytes including alpha. src is not modified. The second
// result is the number of pixels replaced.
//
// Matching is exact: anti-aliased or compressed edge pixels one step away
// from the key stay as they are.
func ApplyKey(src *image.NRGBA, k Key) (*image.NRGBA, int) {
	dst := image.NewNRGBA(src.Rect)
	w := src.Rect.Dx() * 4
	keyed := 0
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		si := src.PixOffset(src.Rect.Min.X, y)
		di := dst.PixOffset(dst.Rect.Min.X, y)
		row := dst.Pix[di : di+w]
		copy(row, src.Pix[si:si+w])
		for i := 0; i < w; i += 4 {
			if row[i] == k.R && row[i+1] == k.G && row[i+2] == k.B {
				copy(row[i:i+4], Keyed[:])
				keyed++
			}
		}
	}
	return dst, keyed
}
