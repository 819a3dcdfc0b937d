package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/rayzchen/3to4pp/internal/color"
	"github.com/rayzchen/3to4pp/internal/config"
	"github.com/rayzchen/3to4pp/internal/ico"
	"github.com/rayzchen/3to4pp/internal/ir"
	"github.com/rayzchen/3to4pp/internal/raster"
)

// Options controls the in-memory stages of the icon pipeline.
type Options struct {
	Sizes  []int         // ascending edge lengths; the last is the primary frame
	Filter raster.Filter // resampling filter
	Key    *color.Key    // optional: chroma key applied once before resizing
	Crop   bool          // centre-crop non-square sources before resizing
}

// OptionsFrom extracts the processing options from a config.
func OptionsFrom(cfg *config.Config) Options {
	opts := Options{
		Sizes:  cfg.Sizes,
		Filter: cfg.Filter,
		Crop:   cfg.Crop,
	}
	if cfg.ColorKey.Enabled {
		k := cfg.ColorKey.Color
		opts.Key = &k
	}
	return opts
}

// Processed holds the resized variants produced from one source.
type Processed struct {
	Variants []ir.Variant // one per size, in Options.Sizes order
	Keyed    int          // pixels replaced by the chroma key
}

// OutputFile describes one written file.
type OutputFile struct {
	Path  string
	Size  int // edge length; for the ICO, the primary frame
	Bytes int
}

// Result holds the output of a pipeline run.
type Result struct {
	SrcWidth  int
	SrcHeight int
	Keyed     int
	PNGs      []OutputFile
	ICO       OutputFile
}

// Process runs key → crop → resize on an already loaded source. src is not
// modified.
func Process(ctx context.Context, src *image.NRGBA, opts Options) (*Processed, error) {
	img := src
	keyed := 0
	if opts.Key != nil {
		img, keyed = color.ApplyKey(img, *opts.Key)
	}

	if opts.Crop {
		cropped, err := raster.CropSquare(img)
		if err != nil {
			return nil, err
		}
		img = cropped
	}

	variants := make([]ir.Variant, 0, len(opts.Sizes))
	for _, size := range opts.Sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resized, err := raster.Resize(img, size, opts.Filter)
		if err != nil {
			return nil, fmt.Errorf("resize %d: %w", size, err)
		}
		variants = append(variants, ir.Variant{Size: size, Image: resized})
	}

	return &Processed{Variants: variants, Keyed: keyed}, nil
}

// Run executes the full icon pipeline: load → key → resize → save PNGs →
// save ICO. Any failure aborts the run; files already written are left in
// place.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Load source
	src, err := raster.Load(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	// 2. Key, crop and resize
	processed, err := Process(ctx, src, OptionsFrom(cfg))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		SrcWidth:  src.Rect.Dx(),
		SrcHeight: src.Rect.Dy(),
		Keyed:     processed.Keyed,
	}

	// 3. One PNG per size
	for _, v := range processed.Variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(cfg.OutputDir, cfg.PNGName(v.Size))
		n, err := raster.SavePNG(path, v.Image)
		if err != nil {
			return nil, err
		}
		result.PNGs = append(result.PNGs, OutputFile{Path: path, Size: v.Size, Bytes: n})
	}

	// 4. Multi-resolution bundle
	icoPath := filepath.Join(cfg.OutputDir, cfg.ICOName)
	n, err := ico.WriteFile(icoPath, processed.Variants)
	if err != nil {
		return nil, err
	}
	result.ICO = OutputFile{Path: icoPath, Size: ir.Largest(processed.Variants).Size, Bytes: n}

	return result, nil
}
