package main

import (
	"fmt"

	"github.com/rayzchen/3to4pp/internal/ico"
	"github.com/rayzchen/3to4pp/internal/ir"
	"github.com/rayzchen/3to4pp/internal/raster"
	"github.com/spf13/cobra"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [png...]",
	Short: "Pack existing square images into one .ico (largest first)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBundle,
}

func init() {
	bundleCmd.Flags().StringP("output", "o", "", "Output ICO file")
	bundleCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(bundleCmd)
}

func runBundle(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	variants := make([]ir.Variant, 0, len(args))
	seen := make(map[int]string)
	for _, path := range args {
		img, err := raster.Load(path)
		if err != nil {
			return err
		}
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if w != h {
			return fmt.Errorf("%s is %dx%d, expected a square image", path, w, h)
		}
		if prev, ok := seen[w]; ok {
			return fmt.Errorf("%s and %s are both %dx%d", prev, path, w, h)
		}
		seen[w] = path
		variants = append(variants, ir.Variant{Size: w, Image: img})
	}

	n, err := ico.WriteFile(outputPath, variants)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	primary := ir.Largest(variants).Size
	fmt.Printf("Bundled %d frames (primary %dx%d) → %s (%d bytes)\n",
		len(variants), primary, primary, outputPath, n)
	return nil
}
