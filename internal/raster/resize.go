package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"
	"github.com/oliamb/cutter"
	"golang.org/x/image/draw"
)

// ErrInvalidSize is returned for non-positive target edge lengths.
var ErrInvalidSize = errors.New("invalid size")

// Filter names a resampling filter.
type Filter string

const (
	FilterLanczos3     Filter = "lanczos3"
	FilterCatmullRom   Filter = "catmullrom"
	FilterBilinear     Filter = "bilinear"
	FilterNearest      Filter = "nearest"
	FilterNfntLanczos3 Filter = "nfnt-lanczos3"
)

// Filters lists every supported filter, default first.
var Filters = []Filter{FilterLanczos3, FilterCatmullRom, FilterBilinear, FilterNearest, FilterNfntLanczos3}

// Lanczos3 is a three-lobe Lanczos-windowed sinc kernel.
var Lanczos3 = &draw.Kernel{Support: 3, At: lanczos(3)}

func lanczos(a float64) func(float64) float64 {
	return func(t float64) float64 {
		t = math.Abs(t)
		if t == 0 {
			return 1
		}
		if t >= a {
			return 0
		}
		pt := math.Pi * t
		return a * math.Sin(pt) * math.Sin(pt/a) / (pt * pt)
	}
}

// ParseFilter converts a filter name to a Filter.
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown resampling filter: %q", s)
}

func (f Filter) scaler() draw.Scaler {
	switch f {
	case FilterCatmullRom:
		return draw.CatmullRom
	case FilterBilinear:
		return draw.BiLinear
	case FilterNearest:
		return draw.NearestNeighbor
	default:
		return Lanczos3
	}
}

// Resize returns a new size x size copy of src. Colors are blended with
// premultiplied alpha, so fully transparent pixels contribute no color to
// their neighbours. src is not modified.
func Resize(src *image.NRGBA, size int, f Filter) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if src.Rect.Empty() {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidSize)
	}

	if f == FilterNfntLanczos3 {
		return unpremultiply(resize.Resize(uint(size), uint(size), src, resize.Lanczos3)), nil
	}

	dst := image.NewRGBA64(image.Rect(0, 0, size, size))
	f.scaler().Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return unpremultiply(dst), nil
}

// unpremultiply converts a premultiplied image to straight alpha. Resampling
// kernels with negative lobes can push a color channel above alpha, so the
// result is clamped.
func unpremultiply(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := dst.PixOffset(x, y)
			if a == 0 {
				continue
			}
			dst.Pix[i+0] = straight(r, a)
			dst.Pix[i+1] = straight(g, a)
			dst.Pix[i+2] = straight(bl, a)
			dst.Pix[i+3] = uint8(a >> 8)
		}
	}
	return dst
}

func straight(c, a uint32) uint8 {
	v := c * 0xffff / a
	if v > 0xffff {
		v = 0xffff
	}
	return uint8(v >> 8)
}

// CropSquare returns the largest centred square of img. Square input is
// returned as is.
func CropSquare(img *image.NRGBA) (*image.NRGBA, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == h {
		return img, nil
	}
	side := min(w, h)

	cropped, err := cutter.Crop(img, cutter.Config{
		Width:   side,
		Height:  side,
		Mode:    cutter.Centered,
		Options: cutter.Copy,
	})
	if err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	return ToNRGBA(cropped), nil
}
