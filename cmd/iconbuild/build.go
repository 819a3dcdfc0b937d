package main

import (
	"fmt"

	"github.com/rayzchen/3to4pp/internal/color"
	"github.com/rayzchen/3to4pp/internal/config"
	"github.com/rayzchen/3to4pp/internal/pipeline"
	"github.com/rayzchen/3to4pp/internal/raster"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resize the source image into PNG icons and an .ico bundle",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().String("config", "", "YAML config file")
	cmd.Flags().StringP("input", "i", def.Source, "Source image")
	cmd.Flags().StringP("output", "o", def.OutputDir, "Output directory")
	cmd.Flags().IntSlice("sizes", def.Sizes, "Icon edge lengths, ascending")
	cmd.Flags().String("filter", string(def.Filter), fmt.Sprintf("Resampling filter %v", raster.Filters))
	cmd.Flags().Bool("crop", def.Crop, "Centre-crop non-square sources to a square")
	cmd.Flags().Bool("key", def.ColorKey.Enabled, "Turn the key color transparent before resizing")
	cmd.Flags().String("key-color", def.ColorKey.Color.String(), "Key color as rrggbb or r,g,b")
	cmd.Flags().String("pattern", def.PNGPattern, "PNG file name pattern (two %d verbs)")
	cmd.Flags().String("ico", def.ICOName, "ICO file name")
}

// loadConfig starts from the config file (or the defaults) and applies
// every flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("input") {
		cfg.Source, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("sizes") {
		cfg.Sizes, _ = flags.GetIntSlice("sizes")
	}
	if flags.Changed("filter") {
		name, _ := flags.GetString("filter")
		cfg.Filter = raster.Filter(name)
	}
	if flags.Changed("crop") {
		cfg.Crop, _ = flags.GetBool("crop")
	}
	if flags.Changed("key") {
		cfg.ColorKey.Enabled, _ = flags.GetBool("key")
	}
	if flags.Changed("key-color") {
		s, _ := flags.GetString("key-color")
		k, err := color.ParseKey(s)
		if err != nil {
			return nil, err
		}
		cfg.ColorKey.Color = k
	}
	if flags.Changed("pattern") {
		cfg.PNGPattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("ico") {
		cfg.ICOName, _ = flags.GetString("ico")
	}

	return cfg, cfg.Validate()
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	printResult(cfg, result)
	return nil
}

func printResult(cfg *config.Config, result *pipeline.Result) {
	fmt.Printf("Source: %s (%dx%d)\n", cfg.Source, result.SrcWidth, result.SrcHeight)
	if cfg.ColorKey.Enabled {
		fmt.Printf("Keyed:  %d pixels of #%s\n", result.Keyed, cfg.ColorKey.Color)
	}
	for _, f := range result.PNGs {
		fmt.Printf("Wrote %s (%dx%d, %d bytes)\n", f.Path, f.Size, f.Size, f.Bytes)
	}
	fmt.Printf("Wrote %s (%d frames, primary %dx%d, %d bytes)\n",
		result.ICO.Path, len(result.PNGs), result.ICO.Size, result.ICO.Size, result.ICO.Bytes)
}
