package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/deepteams/swmedian"
)

// imageRaster adapts a decoded image.Image to swmedian.Raster. Grayscale
// sources (image.Gray, image.Gray16) are exposed as a single channel so
// the filter runs on luminance alone; every other color model is
// exposed as 4-channel NRGBA.
type imageRaster struct {
	img    image.Image
	bounds image.Rectangle
	gray   bool
}

func newImageRaster(img image.Image) *imageRaster {
	_, isGray := img.(*image.Gray)
	_, isGray16 := img.(*image.Gray16)
	return &imageRaster{img: img, bounds: img.Bounds(), gray: isGray || isGray16}
}

func (r *imageRaster) Bounds() (width, height, channels int) {
	if r.gray {
		return r.bounds.Dx(), r.bounds.Dy(), 1
	}
	return r.bounds.Dx(), r.bounds.Dy(), 4
}

func (r *imageRaster) At(x, y int) []byte {
	c := r.img.At(r.bounds.Min.X+x, r.bounds.Min.Y+y)
	if r.gray {
		y16, _, _, _ := c.RGBA()
		return []byte{byte(y16 >> 8)}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return []byte{n.R, n.G, n.B, n.A}
}

func (r *imageRaster) Set(x, y int, values []byte) {
	panic("imageRaster is read-only")
}

// toStdImage converts a swmedian output image back to a standard
// image.Image for re-encoding, choosing Gray or NRGBA to match the
// channel count the filter ran with.
func toStdImage(img *swmedian.Image) image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)
	if img.Channels == 1 {
		out := image.NewGray(rect)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				out.SetGray(x, y, color.Gray{Y: img.At(x, y)[0]})
			}
		}
		return out
	}
	out := image.NewNRGBA(rect)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			copy(out.Pix[out.PixOffset(x, y):], img.At(x, y))
		}
	}
	return out
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("swmedian: opening %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Decode(f)
	default:
		img, _, err := image.Decode(f)
		return img, err
	}
}

func encodeFile(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("swmedian: creating %s: %w", path, err)
	}
	defer out.Close()

	if err := encodeTo(out, path, img); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func encodeTo(w io.Writer, path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}
