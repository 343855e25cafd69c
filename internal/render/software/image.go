package software

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/render"
)

// Image is a CPU render target. Pixels are premultiplied RGBA, eight bits
// per channel. Sub-images share pixels with their parent and keep the
// parent's coordinate space, as ebiten's do.
type Image struct {
	pix  *image.RGBA
	rect image.Rectangle
}

// NewImage allocates a transparent image.
func NewImage(width, height int) *Image {
	pix := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Image{pix: pix, rect: pix.Rect}
}

// FromImage copies any image into a new software image at the origin.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	draw.Draw(img.pix, img.rect, src, b.Min, draw.Src)
	return img
}

// Bounds returns the bounds of the image.
func (i *Image) Bounds() image.Rectangle { return i.rect }

// Size returns the width and height of the image.
func (i *Image) Size() (width, height int) { return i.rect.Dx(), i.rect.Dy() }

// SubImage returns a view of the image clipped to r.
func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{pix: i.pix, rect: r.Intersect(i.rect)}
}

// Fill replaces every pixel with clr.
func (i *Image) Fill(clr color.Color) {
	draw.Draw(i.pix, i.rect, image.NewUniform(clr), image.Point{}, draw.Src)
}

// Clear makes every pixel transparent.
func (i *Image) Clear() {
	i.Fill(color.Transparent)
}

// Dispose is a no-op; the garbage collector owns the pixels.
func (i *Image) Dispose() {}

// RGBA returns the image pixels. The result shares memory with the image.
func (i *Image) RGBA() *image.RGBA {
	return i.pix.SubImage(i.rect).(*image.RGBA)
}

// At returns the premultiplied colour of one pixel.
func (i *Image) At(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(i.rect) {
		return color.RGBA{}
	}
	return i.pix.RGBAAt(x, y)
}

// DrawImage draws src with its top-left corner at the origin of the
// destination's coordinate space.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	s := mustImage(src)
	mode := render.BlendSourceOver
	if opts != nil {
		mode = opts.Blend
	}

	offset := s.rect.Min
	area := s.rect.Sub(offset).Intersect(i.rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			c := toFloat(s.pix.RGBAAt(x+offset.X, y+offset.Y))
			i.blendPixel(x, y, c, 1, mode)
		}
	}
}

// blendPixel combines a premultiplied source colour into one pixel. The
// blended result is weighted by coverage.
func (i *Image) blendPixel(x, y int, src gg.RGBA, coverage float64, mode render.Blend) {
	dst := toFloat(i.pix.RGBAAt(x, y))
	out := blend(mode, src, dst)
	if coverage < 1 {
		out = dst.Lerp(out, coverage)
	}
	i.pix.SetRGBA(x, y, toRGBA(out))
}

// blend applies one of the blend equations to premultiplied colours.
func blend(mode render.Blend, s, d gg.RGBA) gg.RGBA {
	switch mode {
	case render.BlendMultiply:
		return gg.RGBA{
			R: s.R*d.R + d.R*(1-s.A),
			G: s.G*d.G + d.G*(1-s.A),
			B: s.B*d.B + d.B*(1-s.A),
			A: d.A * (1 - s.A),
		}
	case render.BlendAdd:
		return gg.RGBA{
			R: min(1, s.R+d.R),
			G: min(1, s.G+d.G),
			B: min(1, s.B+d.B),
			A: min(1, s.A+d.A),
		}
	default:
		return gg.RGBA{
			R: s.R + d.R*(1-s.A),
			G: s.G + d.G*(1-s.A),
			B: s.B + d.B*(1-s.A),
			A: s.A + d.A*(1-s.A),
		}
	}
}

func toFloat(c color.RGBA) gg.RGBA {
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

func toRGBA(c gg.RGBA) color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// mustImage unwraps a render.Image created by this package. Mixing backends
// is a programming error.
func mustImage(img render.Image) *Image {
	s, ok := img.(*Image)
	if !ok {
		panic("software: image from another renderer")
	}
	return s
}
