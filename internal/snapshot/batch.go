package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"chosenoffset.com/lumen2d/internal/config"
)

// BatchConfig holds the settings shared by every scene of a batch run.
type BatchConfig struct {
	OutputDir string
	Format    Format
	Quality   int
	Overlay   bool
	Flags     config.Flags
	Workers   int // 0 means runtime.NumCPU
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Name    string
	Output  string
	Success bool
	Error   string
}

// RunBatch renders every scene to OutputDir using a worker pool. Each
// worker owns its renderer, so scenes are independent. Results keep the
// order of scenes.
func RunBatch(cfg BatchConfig, scenes []config.SceneEntry) []Result {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(scenes))
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(cfg, scenes[idx])
			}
		}()
	}

	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	return results
}

func processScene(cfg BatchConfig, entry config.SceneEntry) Result {
	outPath := filepath.Join(cfg.OutputDir, entry.Name+"."+cfg.Format.String())
	result := Result{Name: entry.Name, Output: outPath}

	scene, err := config.Load(entry.Path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	scene.Resolve(cfg.Flags)

	world, err := scene.Build()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	frame, err := Render(world, Options{Overlay: cfg.Overlay})
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer frame.Close()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		result.Error = fmt.Sprintf("create output dir: %v", err)
		return result
	}
	if err := frame.Save(outPath, cfg.Quality); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}
