package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rayzchen/3to4pp/internal/ico"
	"github.com/rayzchen/3to4pp/internal/raster"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect an image or the frame directory of an .ico",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	info, err := ico.ReadInfo(data)
	if errors.Is(err, ico.ErrFormat) {
		return identifyRaster(out, path, data)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Format:     ICO\n")
	fmt.Fprintf(out, "Frames:     %d\n", len(info.Frames))
	fmt.Fprintf(out, "File size:  %d bytes\n", len(data))
	for i, f := range info.Frames {
		kind := "BMP"
		if f.PNG {
			kind = "PNG"
		}
		label := ""
		if i == 0 {
			label = " (primary)"
		}
		fmt.Fprintf(out, "  #%d %dx%d %d bpp, %s, %d bytes%s\n", i, f.Width, f.Height, f.BitCount, kind, f.Size, label)
	}

	decoded, err := raster.DecodeInfo(data)
	if err != nil {
		fmt.Fprintf(out, "Decoded:    failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Decoded:    %dx%d (frame used as a build source)\n", decoded.Width, decoded.Height)
	return nil
}

func identifyRaster(out io.Writer, path string, data []byte) error {
	info, err := raster.DecodeInfo(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Format:     %s\n", info.Format)
	fmt.Fprintf(out, "Dimensions: %d x %d\n", info.Width, info.Height)
	fmt.Fprintf(out, "File size:  %d bytes (%.1f KB)\n", len(data), float64(len(data))/1024)
	if info.Width != info.Height {
		fmt.Fprintln(out, "Note:       not square; use --crop when building icons")
	}
	return nil
}
