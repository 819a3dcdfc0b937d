package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode marks failures to read or decode a source image.
var ErrDecode = errors.New("decode error")

var icoMagic = []byte{0, 0, 1, 0}

// Info describes a raster file without decoding its pixels.
type Info struct {
	Width  int
	Height int
	Format string // "png", "jpeg", "ico", ...
}

// Load reads path and decodes it into a straight-alpha RGBA buffer whose
// bounds start at the origin.
func Load(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode decodes any registered raster format, plus ICO files, from memory.
// For an ICO the decoder's preferred frame is used.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) < len(icoMagic) {
		return nil, fmt.Errorf("%w: data too short for an image", ErrDecode)
	}

	var (
		img image.Image
		err error
	)
	if bytes.HasPrefix(data, icoMagic) {
		img, err = ico.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ToNRGBA(img), nil
}

// DecodeInfo reports the dimensions and format of an encoded image.
func DecodeInfo(data []byte) (*Info, error) {
	if bytes.HasPrefix(data, icoMagic) {
		cfg, err := ico.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return &Info{Width: cfg.Width, Height: cfg.Height, Format: "ico"}, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ToNRGBA converts img to an *image.NRGBA with bounds at the origin.
// NRGBA, NRGBA64 and paletted input keep their straight-alpha channel values
// (NRGBA64 reduced to the high byte); other models go through draw.Draw.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		w := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[si:si+w])
		}
	case *image.NRGBA64:
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * dst.Stride
			for x := 0; x < b.Dx(); x++ {
				for c := 0; c < 4; c++ {
					dst.Pix[di+c] = src.Pix[si+2*c]
				}
				si += 8
				di += 4
			}
		}
	case *image.Paletted:
		pal := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			pal[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * dst.Stride
			for x := 0; x < b.Dx(); x++ {
				// Indices past the palette stay transparent black.
				if idx := int(src.Pix[si+x]); idx < len(pal) {
					c := pal[idx]
					dst.Pix[di+0] = c.R
					dst.Pix[di+1] = c.G
					dst.Pix[di+2] = c.B
					dst.Pix[di+3] = c.A
				}
				di += 4
			}
		}
	default:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}
