// Package snapshot renders scenes without a window and writes them as
// image files. Frames are composited by the software backend; the optional
// debug overlay and the encoders come from gg and nativewebp.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/config"
	"chosenoffset.com/lumen2d/internal/lighting"
	"chosenoffset.com/lumen2d/internal/render/software"
)

var (
	// ErrNoViewport is returned when a world has no positive viewport.
	ErrNoViewport = errors.New("snapshot: world has no viewport")
	// ErrUnknownFormat is returned for output paths with no known extension.
	ErrUnknownFormat = errors.New("snapshot: unknown image format")
)

// Format is an output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatWebP
)

// String returns the usual file extension without the dot.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".webp":
		return FormatWebP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Options control Render.
type Options struct {
	// Overlay outlines every shape and marks every light with its radius.
	Overlay bool
}

// Frame is a rendered scene.
type Frame struct {
	ctx   *gg.Context
	Stats lighting.Stats
}

// Context returns the gg context holding the frame's pixels.
func (f *Frame) Context() *gg.Context { return f.ctx }

// Render composites one frame of the world.
func Render(world config.World, opts Options) (*Frame, error) {
	size := world.Options.Viewport
	if size.X <= 0 || size.Y <= 0 {
		return nil, ErrNoViewport
	}

	r := software.NewRenderer()
	res, err := lighting.NewResources(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer res.Dispose()

	sys := lighting.NewSystem(r, res, &world.Options)
	defer sys.Dispose()
	sys.Setup()
	sys.AddLights(world.Lights)
	sys.AddShapes(world.Shapes)
	sys.Update()

	screen := software.NewImage(size.X, size.Y)
	screen.Fill(world.Background.Color())
	sys.Draw(screen)

	frame := &Frame{ctx: gg.NewContextForImage(screen.RGBA()), Stats: sys.Stats()}
	if opts.Overlay {
		if err := drawOverlay(frame.ctx, world); err != nil {
			return nil, fmt.Errorf("snapshot: overlay: %w", err)
		}
	}
	lighting.Logger().Info("frame rendered",
		"width", size.X,
		"height", size.Y,
		"lights", frame.Stats.Lights,
		"masks", frame.Stats.Masks)
	return frame, nil
}

func drawOverlay(dc *gg.Context, world config.World) error {
	dc.SetLineWidth(1)
	dc.SetRGBA(0, 1, 1, 0.8)
	for _, sh := range world.Shapes {
		poly := sh.Shape()
		if len(poly) < 2 {
			continue
		}
		dc.MoveTo(poly[0].X, poly[0].Y)
		for _, p := range poly[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	for _, l := range world.Lights {
		p := l.Position()
		c := l.Color()

		dc.SetDash(4, 4)
		dc.SetRGBA(c.R, c.G, c.B, 0.5)
		dc.DrawCircle(p.X, p.Y, l.Radius())
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.ClearDash()

		dc.SetRGB(c.R, c.G, c.B)
		dc.DrawCircle(p.X, p.Y, 3)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the frame in the given format. quality only applies to
// JPEG.
func (f *Frame) Encode(w io.Writer, format Format, quality int) error {
	switch format {
	case FormatPNG:
		return f.ctx.EncodePNG(w)
	case FormatJPEG:
		return f.ctx.EncodeJPEG(w, quality)
	case FormatWebP:
		return nativewebp.Encode(w, f.ctx.Image(), nil)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}

// Save writes the frame to path, choosing the format from its extension.
func (f *Frame) Save(path string, quality int) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("snapshot: close %s: %w", path, cerr)
		}
	}()

	if err := f.Encode(out, format, quality); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	return nil
}

// Close releases the frame's drawing context.
func (f *Frame) Close() error {
	return f.ctx.Close()
}
