// Package sanitize normalizes captures before they are sent to the
// recognition daemon: flattened to opaque RGB, capped in size, and with
// dimensions snapped to the model's patch alignment. An unaligned or
// oversized image can crash the inference backend.
package sanitize

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	maxDim     = 1120
	patchAlign = 28
)

// Sanitizer returns the path of the image to submit. Implementations must
// leave the input file untouched.
type Sanitizer interface {
	Sanitize(imagePath string) (string, error)
}

// New selects the sanitizer once at startup: the real one, or a no-op
// stand-in when sanitization is disabled.
func New(disabled bool) Sanitizer {
	if disabled {
		return Passthrough{}
	}
	return flattener{}
}

// Passthrough leaves the capture untouched; the pipeline proceeds with the
// original bitmap in degraded mode.
type Passthrough struct{}

func (Passthrough) Sanitize(imagePath string) (string, error) {
	return imagePath, nil
}

type flattener struct{}

func (flattener) Sanitize(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return imagePath, err
	}

	// Flatten any alpha channel over white.
	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	w, h := fitDims(bounds.Dx(), bounds.Dy())
	if w != bounds.Dx() || h != bounds.Dy() {
		flat = imaging.Resize(flat, w, h, imaging.Lanczos)
	}

	safePath := tempPath(imagePath)
	if err := imaging.Save(flat, safePath, imaging.JPEGQuality(100)); err != nil {
		return imagePath, err
	}

	return safePath, nil
}

// fitDims scales (w, h) down so the longer side is at most maxDim, never
// upscaling, then snaps both dimensions down to multiples of patchAlign
// with a floor of one patch.
func fitDims(w, h int) (int, int) {
	scale := 1.0
	if s := float64(maxDim) / float64(w); s < scale {
		scale = s
	}
	if s := float64(maxDim) / float64(h); s < scale {
		scale = s
	}

	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)

	nw -= nw % patchAlign
	nh -= nh % patchAlign

	if nw < patchAlign {
		nw = patchAlign
	}
	if nh < patchAlign {
		nh = patchAlign
	}
	return nw, nh
}

// tempPath is the sibling scratch file for the sanitized copy, removed by
// the pipeline after recognition.
func tempPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".temp.jpg"
}
