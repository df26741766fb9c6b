package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/deepteams/swmedian"
)

var (
	medianRadius int
	medianPreset string
)

var medianCmd = &cobra.Command{
	Use:   "median <input> <output>",
	Short: "Apply the sliding-window median filter",
	Args:  cobra.ExactArgs(2),
	RunE:  runMedian,
}

func init() {
	medianCmd.Flags().IntVar(&medianRadius, "radius", 1, "filter radius (window is (2r+1)x(2r+1))")
	medianCmd.Flags().StringVar(&medianPreset, "preset", "", "named preset from the presets file, overrides --radius")
	rootCmd.AddCommand(medianCmd)
}

func runMedian(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]
	radius := medianRadius

	if medianPreset != "" {
		presets, err := loadPresets(presetsPath)
		if err != nil {
			return err
		}
		p, err := findPreset(presets, medianPreset)
		if err != nil {
			return err
		}
		radius = p.Radius
	}

	log.Debug().Str("input", inputPath).Int("radius", radius).Msg("decoding")
	src, err := decodeFile(inputPath)
	if err != nil {
		return fmt.Errorf("swmedian: median: %w", err)
	}

	start := time.Now()
	out, err := swmedian.MedianFilter(newImageRaster(src), radius)
	if err != nil {
		return fmt.Errorf("swmedian: median: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("filtered")

	if err := encodeFile(outputPath, toStdImage(out)); err != nil {
		return fmt.Errorf("swmedian: median: %w", err)
	}

	fmt.Printf("Wrote %s (median, radius=%d, %dx%d)\n", outputPath, radius, out.Width, out.Height)
	return nil
}
