package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	ico "github.com/sergeymakinen/go-ico"

	keycolor "github.com/rayzchen/3to4pp/internal/color"
)

var iconSizes = []int{16, 32, 48, 64, 128}

// opaqueGradient builds a fully opaque test image.
func opaqueGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 200, 255})
		}
	}
	return img
}

func TestResizeProducesSquare(t *testing.T) {
	src := opaqueGradient(512, 512)

	for _, f := range Filters {
		for _, size := range iconSizes {
			out, err := Resize(src, size, f)
			if err != nil {
				t.Fatalf("[%s] Resize(%d): %v", f, size, err)
			}
			b := out.Bounds()
			if b.Dx() != size || b.Dy() != size {
				t.Errorf("[%s] Resize(%d) gave %dx%d", f, size, b.Dx(), b.Dy())
			}
			for i := 3; i < len(out.Pix); i += 4 {
				if out.Pix[i] != 255 {
					t.Errorf("[%s] Resize(%d): pixel %d has alpha %d, expected opaque", f, size, i/4, out.Pix[i])
					break
				}
			}
		}
	}
}

func TestResizeNonSquareSource(t *testing.T) {
	out, err := Resize(opaqueGradient(300, 120), 48, FilterLanczos3)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out.Rect != image.Rect(0, 0, 48, 48) {
		t.Errorf("unexpected bounds %v", out.Rect)
	}
}

func TestResizeInvalidSize(t *testing.T) {
	src := opaqueGradient(8, 8)
	for _, size := range []int{0, -16} {
		if _, err := Resize(src, size, FilterLanczos3); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Resize(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestResizeDoesNotModifySource(t *testing.T) {
	src := opaqueGradient(64, 64)
	before := append([]byte(nil), src.Pix...)
	if _, err := Resize(src, 16, FilterLanczos3); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	for i := range before {
		if before[i] != src.Pix[i] {
			t.Fatalf("source modified at byte %d", i)
		}
	}
}

func TestResizeKeepsTransparentRegion(t *testing.T) {
	// Left half transparent, right half opaque.
	src := opaqueGradient(256, 256)
	for y := 0; y < 256; y++ {
		for x := 0; x < 128; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 0})
		}
	}

	for _, size := range iconSizes {
		out, err := Resize(src, size, FilterLanczos3)
		if err != nil {
			t.Fatalf("Resize(%d): %v", size, err)
		}
		// Far enough from the boundary that the kernel never reaches it.
		inside := size/4 - 1
		if a := out.NRGBAAt(inside, size/2).A; a != 0 {
			t.Errorf("Resize(%d): pixel (%d,%d) alpha %d, expected 0", size, inside, size/2, a)
		}
		if a := out.NRGBAAt(size-1-inside, size/2).A; a != 255 {
			t.Errorf("Resize(%d): pixel (%d,%d) alpha %d, expected 255", size, size-1-inside, size/2, a)
		}
	}
}

func TestParseFilter(t *testing.T) {
	for _, f := range Filters {
		got, err := ParseFilter(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFilter(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFilter("lanczos5"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestCropSquare(t *testing.T) {
	src := opaqueGradient(300, 200)
	out, err := CropSquare(src)
	if err != nil {
		t.Fatalf("CropSquare: %v", err)
	}
	if out.Rect != image.Rect(0, 0, 200, 200) {
		t.Fatalf("unexpected bounds %v", out.Rect)
	}
	if got, want := out.NRGBAAt(0, 0), src.NRGBAAt(50, 0); got != want {
		t.Errorf("top-left pixel %v, want %v (source x=50)", got, want)
	}

	square := opaqueGradient(64, 64)
	same, err := CropSquare(square)
	if err != nil {
		t.Fatalf("CropSquare square: %v", err)
	}
	if same != square {
		t.Error("expected square input to be returned unchanged")
	}
}

func TestSaveAndLoadPreservesStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{51, 51, 51, 17})
	src.SetNRGBA(1, 0, color.NRGBA{52, 51, 51, 200})

	path := filepath.Join(t.TempDir(), "alpha.png")
	n, err := SavePNG(path, src)
	if err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if n == 0 {
		t.Error("SavePNG reported 0 bytes")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for x := 0; x < 2; x++ {
		if got.NRGBAAt(x, 0) != src.NRGBAAt(x, 0) {
			t.Errorf("pixel %d: got %v, want %v", x, got.NRGBAAt(x, 0), src.NRGBAAt(x, 0))
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, ErrDecode) {
		t.Errorf("missing file: expected ErrDecode, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("definitely not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage); !errors.Is(err, ErrDecode) {
		t.Errorf("garbage file: expected ErrDecode, got %v", err)
	}
}

func TestDecodeInfo(t *testing.T) {
	data, err := PNGBytes(opaqueGradient(40, 30))
	if err != nil {
		t.Fatalf("PNGBytes: %v", err)
	}
	info, err := DecodeInfo(data)
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}
	if info.Width != 40 || info.Height != 30 || info.Format != "png" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestDecodeInfoICO(t *testing.T) {
	var buf bytes.Buffer
	frames := []image.Image{opaqueGradient(16, 16), opaqueGradient(128, 128), opaqueGradient(32, 32)}
	if err := ico.EncodeAll(&buf, frames); err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	info, err := DecodeInfo(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}
	if info.Width != 128 || info.Height != 128 || info.Format != "ico" {
		t.Errorf("unexpected info %+v", info)
	}

	if _, err := DecodeInfo([]byte{0, 0, 1, 0, 0, 0}); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for an empty ICO directory, got %v", err)
	}
}

func TestLoadPalettedKeepsKeyColor(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{51, 51, 51, 1},
		color.NRGBA{51, 51, 51, 255},
		color.NRGBA{10, 20, 30, 255},
	}
	src := image.NewPaletted(image.Rect(0, 0, 3, 1), pal)
	src.Pix = []uint8{0, 1, 2}

	path := filepath.Join(t.TempDir(), "paletted.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for x, want := range pal {
		if got := img.NRGBAAt(x, 0); got != want {
			t.Errorf("pixel %d = %v, expected %v", x, got, want)
		}
	}

	keyed, n := keycolor.ApplyKey(img, keycolor.DefaultKey)
	if n != 2 {
		t.Errorf("keyed %d of 2 key-colored pixels", n)
	}
	if got := keyed.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 0}) {
		t.Errorf("alpha-1 key pixel became %v", got)
	}
}

func TestToNRGBAFromNRGBA64(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(2, 3, 4, 4))
	src.SetNRGBA64(2, 3, color.NRGBA64{R: 0x33ff, G: 0x3300, B: 0x3380, A: 0x0101})
	src.SetNRGBA64(3, 3, color.NRGBA64{R: 0xffff, G: 0x0000, B: 0x8000, A: 0xffff})

	img := ToNRGBA(src)
	if b := img.Bounds(); b != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds %v, expected origin-based 2x1", b)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{51, 51, 51, 1}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{255, 0, 128, 255}) {
		t.Errorf("pixel 1 = %v", got)
	}
}
