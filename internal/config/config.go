// Package config loads lumen2d scenes from JSON files. A scene lists the
// lights, occluder shapes and tile grids to place in a lighting.System,
// together with the viewport and compositor options.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/gg"
)

// Default viewport used when neither the scene nor the flags give one.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// ErrInvalidColor is wrapped by errors for malformed hex colours.
var ErrInvalidColor = errors.New("invalid hex colour")

// Scene is the on-disk description of a lit scene.
type Scene struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Colours are hex strings: RGB, RGBA, RRGGBB or RRGGBBAA, '#' optional.
	Background string `json:"background"`
	Ambient    string `json:"ambient"`

	DrawShapes     *bool `json:"draw_shapes"` // default true
	CullOutOfRange bool  `json:"cull_out_of_range"`

	Lights []LightSpec `json:"lights"`
	Shapes []ShapeSpec `json:"shapes"`
	Grids  []GridSpec  `json:"grids"`
}

// LightSpec describes one light. Angles are in degrees.
type LightSpec struct {
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Z               float64  `json:"z"`
	AngleDeg        float64  `json:"angle_deg"`
	ViewAngleDeg    float64  `json:"view_angle_deg"` // 0 means 360
	Radius          float64  `json:"radius"`         // 0 means lighting.DefaultRadius
	Color           string   `json:"color"`          // default white
	Bleed           float64  `json:"bleed"`
	LinearizeFactor *float64 `json:"linearize_factor"` // default 1
}

// ShapeSpec describes an occluder either by its vertices or as a rectangle.
type ShapeSpec struct {
	Points [][2]float64 `json:"points"`
	Rect   *RectSpec    `json:"rect"`
	Color  string       `json:"color"`
}

// RectSpec is a rectangle given by its centre and size.
type RectSpec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// GridSpec is a tile map whose '#' tiles become rectangular occluders.
type GridSpec struct {
	TileSize float64    `json:"tile_size"`
	Origin   [2]float64 `json:"origin"`
	Rows     []string   `json:"rows"`
	Color    string     `json:"color"`
}

// Load reads and validates a scene file.
func Load(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return Scene{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown fields are rejected.
func Parse(data []byte) (Scene, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var s Scene
	if err := dec.Decode(&s); err != nil {
		return Scene{}, err
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Validate checks value ranges and colours.
func (s Scene) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("viewport %dx%d: negative size", s.Width, s.Height)
	}
	for _, c := range []string{s.Background, s.Ambient} {
		if _, err := ParseColor(c, gg.Transparent); err != nil {
			return err
		}
	}

	for i, l := range s.Lights {
		if l.Radius < 0 {
			return fmt.Errorf("light %d: negative radius %v", i, l.Radius)
		}
		if l.ViewAngleDeg < 0 || l.ViewAngleDeg > 360 {
			return fmt.Errorf("light %d: view angle %v outside [0, 360]", i, l.ViewAngleDeg)
		}
		if _, err := ParseColor(l.Color, gg.White); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	for i, sh := range s.Shapes {
		switch {
		case sh.Rect != nil && len(sh.Points) > 0:
			return fmt.Errorf("shape %d: both points and rect given", i)
		case sh.Rect != nil:
			if sh.Rect.W <= 0 || sh.Rect.H <= 0 {
				return fmt.Errorf("shape %d: rect size %vx%v must be positive", i, sh.Rect.W, sh.Rect.H)
			}
		case len(sh.Points) < 2:
			return fmt.Errorf("shape %d: %d points, need at least 2", i, len(sh.Points))
		}
		if _, err := ParseColor(sh.Color, gg.Transparent); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}

	for i, g := range s.Grids {
		if g.TileSize <= 0 {
			return fmt.Errorf("grid %d: tile size %v must be positive", i, g.TileSize)
		}
		if _, err := ParseColor(g.Color, gg.Transparent); err != nil {
			return fmt.Errorf("grid %d: %w", i, err)
		}
	}
	return nil
}

// Flags holds CLI flag values that override scene settings.
type Flags struct {
	Width          int
	Height         int
	Ambient        string
	CullOutOfRange bool
	HideShapes     bool
}

// Resolve applies flag overrides and fills in defaults. Flags take
// priority when non-zero.
func (s *Scene) Resolve(flags Flags) {
	if flags.Width > 0 {
		s.Width = flags.Width
	}
	if flags.Height > 0 {
		s.Height = flags.Height
	}
	if flags.Ambient != "" {
		s.Ambient = flags.Ambient
	}
	if flags.CullOutOfRange {
		s.CullOutOfRange = true
	}
	if flags.HideShapes {
		hide := false
		s.DrawShapes = &hide
	}

	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
}

// ParseColor parses a hex colour. The empty string yields def.
func ParseColor(hex string, def gg.RGBA) (gg.RGBA, error) {
	if hex == "" {
		return def, nil
	}
	digits := strings.TrimPrefix(hex, "#")
	switch len(digits) {
	case 3, 4, 6, 8:
	default:
		return gg.RGBA{}, fmt.Errorf("%q: %w", hex, ErrInvalidColor)
	}
	for _, c := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return gg.RGBA{}, fmt.Errorf("%q: %w", hex, ErrInvalidColor)
		}
	}
	return gg.Hex(digits), nil
}
