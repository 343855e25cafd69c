package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chosenoffset.com/lumen2d/internal/config"
	"chosenoffset.com/lumen2d/internal/demo"
	"chosenoffset.com/lumen2d/internal/lighting"
	ebitenrender "chosenoffset.com/lumen2d/internal/render/ebiten"
)

func main() {
	scenePath := flag.String("scene", "", "Scene file to open")
	sceneDir := flag.String("scenes", "", "Directory of scene files to cycle with n")
	width := flag.Int("width", config.DefaultWidth, "Window width")
	height := flag.Int("height", config.DefaultHeight, "Window height")
	ambient := flag.String("ambient", "", "Ambient colour as hex (overrides scene)")
	cull := flag.Bool("cull", false, "Skip shadows of shapes outside a light's radius")
	hideShapes := flag.Bool("hide-shapes", false, "Do not fill occluders")
	seed := flag.Int64("seed", 0, "Random seed (default: time)")
	help := flag.Bool("help-overlay", true, "Show key bindings and frame stats")
	markers := flag.Bool("markers", false, "Mark every light")
	verbose := flag.Bool("v", false, "Log lighting diagnostics")
	flag.Parse()

	if *verbose {
		lighting.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var scenes []config.SceneEntry
	if *sceneDir != "" {
		log.Printf("Scanning %s for scene files...", *sceneDir)
		found, err := config.ScanSceneDirectory(*sceneDir)
		if err != nil {
			log.Fatalf("Failed to scan scene directory: %v", err)
		}
		scenes = found
		log.Printf("Found %d scenes", len(scenes))
	}
	if *scenePath != "" {
		name := strings.TrimSuffix(filepath.Base(*scenePath), filepath.Ext(*scenePath))
		scenes = append([]config.SceneEntry{{Name: name, Path: *scenePath}}, scenes...)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	app, err := demo.NewApp(renderer, inputMgr, engine, demo.Options{
		Width:  *width,
		Height: *height,
		Rand:   rand.New(rand.NewSource(*seed)),
		Scenes: scenes,
		Flags: config.Flags{
			Ambient:        *ambient,
			CullOutOfRange: *cull,
			HideShapes:     *hideShapes,
		},
		ShowHelp: *help,
		Markers:  *markers,
	})
	if err != nil {
		log.Fatalf("Failed to create demo: %v", err)
	}
	defer app.Dispose()

	// Set up the window
	engine.SetWindowSize(*width, *height)
	engine.SetWindowTitle("lumen2d")
	engine.SetWindowResizable(true)

	log.Println("Starting demo...")
	if err := engine.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
