package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/lighting"
)

const sampleScene = `{
	"name": "corridor",
	"width": 640,
	"height": 480,
	"background": "#101010",
	"ambient": "00000040",
	"lights": [
		{"x": 100, "y": 100, "radius": 300, "color": "ff8800"},
		{"x": 500, "y": 200, "angle_deg": 90, "view_angle_deg": 60, "linearize_factor": 0.5}
	],
	"shapes": [
		{"rect": {"x": 320, "y": 240, "w": 40, "h": 20}},
		{"points": [[0, 0], [0, 10], [10, 10]], "color": "#f00"}
	],
	"grids": [
		{"tile_size": 16, "origin": [200, 0], "rows": ["##.", "..."]}
	]
}`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "corridor.json", sampleScene)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Name != "corridor" || s.Width != 640 || s.Height != 480 {
		t.Errorf("Load() header = %q %dx%d", s.Name, s.Width, s.Height)
	}
	if len(s.Lights) != 2 || len(s.Shapes) != 2 || len(s.Grids) != 1 {
		t.Errorf("Load() counts = %d lights, %d shapes, %d grids", len(s.Lights), len(s.Shapes), len(s.Grids))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want os.ErrNotExist", err)
	}
	if !strings.HasPrefix(err.Error(), "config: read ") {
		t.Errorf("Load() error = %q, want read prefix", err)
	}
}

func TestLoad_ParseErrorNamesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"width": "wide"}`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "config: parse "+path) {
		t.Errorf("Load() error = %v, want parse error naming %s", err, path)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unknown field", `{"lightz": []}`, nil},
		{"negative width", `{"width": -1}`, nil},
		{"bad background", `{"background": "#12"}`, ErrInvalidColor},
		{"bad light colour", `{"lights": [{"color": "zzzzzz"}]}`, ErrInvalidColor},
		{"negative radius", `{"lights": [{"radius": -5}]}`, nil},
		{"view angle too wide", `{"lights": [{"view_angle_deg": 400}]}`, nil},
		{"points and rect", `{"shapes": [{"points": [[0,0],[1,1]], "rect": {"w": 1, "h": 1}}]}`, nil},
		{"empty rect", `{"shapes": [{"rect": {"w": 0, "h": 1}}]}`, nil},
		{"one point", `{"shapes": [{"points": [[0,0]]}]}`, nil},
		{"zero tile size", `{"grids": [{"rows": ["#"]}]}`, nil},
		{"bad grid colour", `{"grids": [{"tile_size": 8, "color": "#ggg"}]}`, ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    gg.RGBA
		wantErr bool
	}{
		{"", gg.White, false},
		{"#fff", gg.White, false},
		{"000000", gg.Black, false},
		{"ff0000ff", gg.RGBA{R: 1, A: 1}, false},
		{"#12345", gg.RGBA{}, true},
		{"#xyz", gg.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in, gg.White)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var s Scene
		s.Resolve(Flags{})
		if s.Width != DefaultWidth || s.Height != DefaultHeight {
			t.Errorf("Resolve() size = %dx%d, want %dx%d", s.Width, s.Height, DefaultWidth, DefaultHeight)
		}
		if s.DrawShapes != nil {
			t.Errorf("Resolve() DrawShapes = %v, want unset", *s.DrawShapes)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		s := Scene{Width: 640, Height: 480, Ambient: "#000"}
		s.Resolve(Flags{Width: 800, Ambient: "#111", CullOutOfRange: true, HideShapes: true})
		if s.Width != 800 || s.Height != 480 {
			t.Errorf("Resolve() size = %dx%d, want 800x480", s.Width, s.Height)
		}
		if s.Ambient != "#111" {
			t.Errorf("Resolve() Ambient = %q, want #111", s.Ambient)
		}
		if !s.CullOutOfRange {
			t.Error("Resolve() CullOutOfRange = false, want true")
		}
		if s.DrawShapes == nil || *s.DrawShapes {
			t.Error("Resolve() did not hide shapes")
		}
	})
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(sampleScene))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s.Resolve(Flags{})

	w, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if w.Options.Viewport.X != 640 || w.Options.Viewport.Y != 480 {
		t.Errorf("Viewport = %v, want 640x480", w.Options.Viewport)
	}
	if !w.Options.DrawShapes {
		t.Error("DrawShapes = false, want default true")
	}
	if w.Options.Ambient.A <= 0 {
		t.Errorf("Ambient = %v, want translucent black", w.Options.Ambient)
	}
	if w.Background == (gg.RGBA{}) {
		t.Error("Background not parsed")
	}

	if len(w.Lights) != 2 {
		t.Fatalf("len(Lights) = %d, want 2", len(w.Lights))
	}
	first, second := w.Lights[0], w.Lights[1]
	if first.Radius() != 300 || first.ViewAngle() != 2*math.Pi {
		t.Errorf("first light radius %v view %v, want 300 and full circle", first.Radius(), first.ViewAngle())
	}
	if second.Radius() != lighting.DefaultRadius {
		t.Errorf("second light radius = %v, want default", second.Radius())
	}
	if math.Abs(second.Angle()-math.Pi/2) > 1e-12 || math.Abs(second.ViewAngle()-math.Pi/3) > 1e-12 {
		t.Errorf("second light angle %v view %v, want π/2 and π/3", second.Angle(), second.ViewAngle())
	}
	if second.LinearizeFactor() != 0.5 {
		t.Errorf("LinearizeFactor() = %v, want 0.5", second.LinearizeFactor())
	}

	// Two listed shapes plus one grid strip.
	if len(w.Shapes) != 3 {
		t.Fatalf("len(Shapes) = %d, want 3", len(w.Shapes))
	}
	for i, sh := range w.Shapes {
		if got := sh.Shape().Winding(); got != shadows.WindingClockwise {
			t.Errorf("shape %d winding = %v, want clockwise", i, got)
		}
	}
	if got := w.Shapes[0].Center(); got != (shadows.Point{X: 320, Y: 240}) {
		t.Errorf("rect centre = %v, want (320, 240)", got)
	}
	if got := w.Shapes[1].Color(); got != (gg.RGBA{R: 1, A: 1}) {
		t.Errorf("shape colour = %v, want red", got)
	}
	if got := w.Shapes[2].Bounds(); got.LLx != 200 || got.URx != 232 || got.LLy != 0 || got.URy != 16 {
		t.Errorf("grid occluder bounds = %v, want 200..232 x 0..16", got)
	}
}

func TestScanSceneDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "a.JSON", "{}")
	writeFile(t, dir, ".hidden.json", "{}")
	writeFile(t, dir, "notes.txt", "")
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	scenes, err := ScanSceneDirectory(dir)
	if err != nil {
		t.Fatalf("ScanSceneDirectory() error = %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("ScanSceneDirectory() = %v, want 2 entries", scenes)
	}
	if scenes[0].Name != "a" || scenes[1].Name != "b" {
		t.Errorf("names = %q, %q, want a, b", scenes[0].Name, scenes[1].Name)
	}
	if scenes[1].Path != filepath.Join(dir, "b.json") {
		t.Errorf("Path = %q", scenes[1].Path)
	}
}

func TestScanSceneDirectory_Missing(t *testing.T) {
	if _, err := ScanSceneDirectory(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ScanSceneDirectory() error = %v, want os.ErrNotExist", err)
	}
}
