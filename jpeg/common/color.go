package common

import "math"

// YCbCrToRGB converts one YCbCr sample to RGB using the exact coefficients
// from spec.md §4.7. y, cb, cr are raw post-IDCT samples: already signed
// and zero-centered (JPEG encodes Cb/Cr as deviations from 128 before the
// forward DCT, so the inverse transform hands them back centered on 0,
// and Y likewise comes back without its own +128 shift). This stage adds
// the single +128 level shift and clamps to [0,255] — the only stage
// that does either (spec.md §8 property 6).
func YCbCrToRGB(y, cb, cr int32) (r, g, b byte) {
	rf := math.Round(float64(y)+1.402*float64(cr)) + 128
	gf := math.Round(float64(y)-0.344136*float64(cb)-0.714136*float64(cr)) + 128
	bf := math.Round(float64(y)+1.772*float64(cb)) + 128

	r = byte(Clamp(int32(rf), 0, 255))
	g = byte(Clamp(int32(gf), 0, 255))
	b = byte(Clamp(int32(bf), 0, 255))
	return
}

// GrayToRGB treats a single luminance sample as the only channel (spec.md
// §4.7's single-component case): R=G=B=Y after the standard +128 level
// shift and clamp.
func GrayToRGB(y int32) byte {
	return byte(Clamp(y+128, 0, 255))
}
