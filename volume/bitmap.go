package volume

import "github.com/boljen/go-bitmap"

// bitmapGet and bitmapSet adapt go-bitmap's LSB-first, byte-i/8 bit layout
// (the same layout spec.md's on-disk contract requires) to a plain []byte so
// callers don't need to repeat the bitmap.Bitmap(...) conversion everywhere.
func bitmapGet(bm []byte, i int) bool {
	return bitmap.Bitmap(bm).Get(i)
}

func bitmapSet(bm []byte, i int, v bool) {
	bitmap.Bitmap(bm).Set(i, v)
}
