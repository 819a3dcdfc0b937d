package ir

import "image"

// Variant is one resized frame passed from the resize stage to the PNG and
// ICO writers. Image is always Size x Size with straight (non-premultiplied)
// alpha.
type Variant struct {
	Size  int
	Image *image.NRGBA
}

// Largest returns the variant with the greatest edge length, or nil for an
// empty slice.
func Largest(variants []Variant) *Variant {
	var best *Variant
	for i := range variants {
		if best == nil || variants[i].Size > best.Size {
			best = &variants[i]
		}
	}
	return best
}
