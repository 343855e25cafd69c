package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"chosenoffset.com/lumen2d/internal/config"
	"chosenoffset.com/lumen2d/internal/lighting"
	"chosenoffset.com/lumen2d/internal/snapshot"
)

func main() {
	// CLI flags
	scenePath := flag.String("scene", "", "Scene file to render")
	sceneDir := flag.String("scenes", "", "Render every scene file in this directory")
	output := flag.String("o", "frame.png", "Output file (.png, .jpg or .webp) for -scene")
	outputDir := flag.String("output", "renders", "Output directory for -scenes")
	format := flag.String("format", "png", "Image format for -scenes: png, jpeg or webp")
	quality := flag.Int("quality", 90, "JPEG quality 1-100")
	width := flag.Int("width", 0, "Frame width (overrides scene)")
	height := flag.Int("height", 0, "Frame height (overrides scene)")
	ambient := flag.String("ambient", "", "Ambient colour as hex (overrides scene)")
	cull := flag.Bool("cull", false, "Skip shadows of shapes outside a light's radius")
	hideShapes := flag.Bool("hide-shapes", false, "Do not fill occluders")
	overlay := flag.Bool("overlay", false, "Outline shapes and mark lights")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Log lighting diagnostics")

	flag.Parse()

	if *verbose {
		lighting.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	flags := config.Flags{
		Width:          *width,
		Height:         *height,
		Ambient:        *ambient,
		CullOutOfRange: *cull,
		HideShapes:     *hideShapes,
	}

	switch {
	case *scenePath != "":
		if err := renderOne(*scenePath, *output, *quality, *overlay, flags); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *sceneDir != "":
		f, err := snapshot.FormatFromPath("x." + *format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !renderAll(*sceneDir, snapshot.BatchConfig{
			OutputDir: *outputDir,
			Format:    f,
			Quality:   *quality,
			Overlay:   *overlay,
			Flags:     flags,
			Workers:   *workers,
		}) {
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "Error: one of -scene or -scenes is required.")
		flag.Usage()
		os.Exit(2)
	}
}

func renderOne(scenePath, output string, quality int, overlay bool, flags config.Flags) error {
	scene, err := config.Load(scenePath)
	if err != nil {
		return err
	}
	scene.Resolve(flags)

	world, err := scene.Build()
	if err != nil {
		return err
	}

	frame, err := snapshot.Render(world, snapshot.Options{Overlay: overlay})
	if err != nil {
		return err
	}
	defer frame.Close()

	if err := frame.Save(output, quality); err != nil {
		return err
	}
	fmt.Printf("%s: %d lights, %d masks -> %s\n", scenePath, frame.Stats.Lights, frame.Stats.Masks, output)
	return nil
}

func renderAll(dir string, cfg snapshot.BatchConfig) bool {
	scenes, err := config.ScanSceneDirectory(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	if len(scenes) == 0 {
		fmt.Println("No scenes to render.")
		return true
	}

	fmt.Printf("Scenes: %d, Output: %s\n", len(scenes), cfg.OutputDir)
	start := time.Now()
	results := snapshot.RunBatch(cfg, scenes)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(os.Stderr, "  FAIL %s: %s\n", r.Name, r.Error)
		}
	}
	fmt.Printf("Done: %d rendered, %d failed in %s\n", len(results)-failed, failed, time.Since(start).Round(time.Millisecond))
	return failed == 0
}
