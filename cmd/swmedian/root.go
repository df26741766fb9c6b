package main

import (
	"github.com/spf13/cobra"
)

var presetsPath string

var rootCmd = &cobra.Command{
	Use:   "swmedian",
	Short: "Constant-time sliding-window median and alpha-trimmed mean filters",
	Long: `swmedian applies Weiss' partial-histogram sliding-window method to
raster images, supporting the median filter and the alpha-trimmed mean
filter at cost independent of the window radius.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&presetsPath, "presets", "", "path to a YAML presets file")
}
