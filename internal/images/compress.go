package images

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/png" // register decoders for Recompress

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Recompression bounds applied to generated images before they are embedded.
const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 80
)

// Recompress clamps the image to maxWidth (preserving aspect ratio) and
// re-encodes it as JPEG at the fixed quality. It degrades gracefully: any
// decode or encode failure returns the original image unchanged.
func Recompress(img *Image, maxWidth, quality int) *Image {
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return img
	}

	bounds := decoded.Bounds()
	if bounds.Dx() > maxWidth {
		height := bounds.Dy() * maxWidth / bounds.Dx()
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), decoded, bounds, draw.Over, nil)
		decoded = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: quality}); err != nil {
		return img
	}
	return &Image{Data: buf.Bytes(), MIME: "image/jpeg"}
}
