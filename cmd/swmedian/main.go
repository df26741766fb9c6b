// Command swmedian applies the sliding-window median and alpha-trimmed
// mean filters to PNG, JPEG, and BMP images from the command line.
//
// Usage:
//
//	swmedian median --radius 3 input.png output.png
//	swmedian mean --radius 2 --alpha 4 input.jpg output.jpg
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("swmedian: failed")
		os.Exit(1)
	}
}
