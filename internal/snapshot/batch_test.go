package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/lumen2d/internal/config"
)

func TestRunBatch(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "renders")

	scenes := map[string]string{
		"lit":    `{"width": 64, "height": 48, "lights": [{"x": 10, "y": 10, "radius": 100}], "shapes": [{"rect": {"x": 30, "y": 30, "w": 8, "h": 8}}]}`,
		"broken": `{"lights": [{"color": "nope"}]}`,
	}
	for name, data := range scenes {
		if err := os.WriteFile(filepath.Join(in, name+".json"), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := config.ScanSceneDirectory(in)
	if err != nil {
		t.Fatalf("ScanSceneDirectory() error = %v", err)
	}

	results := RunBatch(BatchConfig{OutputDir: out, Format: FormatPNG, Workers: 2}, entries)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	// Entries are sorted: broken, lit.
	broken, lit := results[0], results[1]
	if broken.Success || !strings.Contains(broken.Error, "invalid hex colour") {
		t.Errorf("broken result = %+v, want colour error", broken)
	}
	if !lit.Success {
		t.Fatalf("lit result = %+v, want success", lit)
	}
	if want := filepath.Join(out, "lit.png"); lit.Output != want {
		t.Errorf("Output = %q, want %q", lit.Output, want)
	}
	if _, err := os.Stat(lit.Output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}
