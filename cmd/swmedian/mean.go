package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/deepteams/swmedian"
)

var (
	meanRadius int
	meanAlpha  int
	meanPreset string
)

var meanCmd = &cobra.Command{
	Use:   "mean <input> <output>",
	Short: "Apply the sliding-window alpha-trimmed mean filter",
	Args:  cobra.ExactArgs(2),
	RunE:  runMean,
}

func init() {
	meanCmd.Flags().IntVar(&meanRadius, "radius", 1, "filter radius (window is (2r+1)x(2r+1))")
	meanCmd.Flags().IntVar(&meanAlpha, "alpha", 0, "total samples trimmed per window, must be even")
	meanCmd.Flags().StringVar(&meanPreset, "preset", "", "named preset from the presets file, overrides --radius/--alpha")
	rootCmd.AddCommand(meanCmd)
}

func runMean(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]
	radius, alpha := meanRadius, meanAlpha

	if meanPreset != "" {
		presets, err := loadPresets(presetsPath)
		if err != nil {
			return err
		}
		p, err := findPreset(presets, meanPreset)
		if err != nil {
			return err
		}
		radius, alpha = p.Radius, p.Alpha
	}

	log.Debug().Str("input", inputPath).Int("radius", radius).Int("alpha", alpha).Msg("decoding")
	src, err := decodeFile(inputPath)
	if err != nil {
		return fmt.Errorf("swmedian: mean: %w", err)
	}

	start := time.Now()
	out, err := swmedian.AlphaTrimmedMeanFilter(newImageRaster(src), radius, alpha)
	if err != nil {
		return fmt.Errorf("swmedian: mean: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("filtered")

	if err := encodeFile(outputPath, toStdImage(out)); err != nil {
		return fmt.Errorf("swmedian: mean: %w", err)
	}

	fmt.Printf("Wrote %s (alpha-trimmed mean, radius=%d, alpha=%d, %dx%d)\n", outputPath, radius, alpha, out.Width, out.Height)
	return nil
}
