package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rayzchen/3to4pp/internal/color"
	"github.com/rayzchen/3to4pp/internal/raster"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Turn the key color transparent (PNG output + JSON sidecar)",
	RunE:  runKey,
}

func init() {
	keyCmd.Flags().StringP("input", "i", "", "Source image")
	keyCmd.Flags().StringP("output", "o", "", "Output PNG file")
	keyCmd.Flags().String("key-color", color.DefaultKey.String(), "Key color as rrggbb or r,g,b")
	keyCmd.MarkFlagRequired("input")
	keyCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(keyCmd)
}

type keyMeta struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Key    color.Key `json:"key"`
	Keyed  int       `json:"keyed"`
}

func runKey(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	keyStr, _ := cmd.Flags().GetString("key-color")

	key, err := color.ParseKey(keyStr)
	if err != nil {
		return err
	}

	ext := filepath.Ext(outputPath)
	if strings.EqualFold(ext, ".json") {
		return fmt.Errorf("output %s would be overwritten by its JSON sidecar", outputPath)
	}
	metaPath := strings.TrimSuffix(outputPath, ext) + ".json"

	src, err := raster.Load(inputPath)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	keyed, n := color.ApplyKey(src, key)

	size, err := raster.SavePNG(outputPath, keyed)
	if err != nil {
		return err
	}

	// Write JSON sidecar
	meta := keyMeta{
		Width:  keyed.Rect.Dx(),
		Height: keyed.Rect.Dy(),
		Key:    key,
		Keyed:  n,
	}
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	fmt.Printf("Keyed %d of %d pixels (#%s) → %s (%d bytes)\n",
		n, meta.Width*meta.Height, key, outputPath, size)
	fmt.Printf("Sidecar: %s\n", metaPath)
	return nil
}
