// Package demo is the interactive lighting demo. A cone light follows the
// mouse and turns slowly while random or file-based scenes are lit around
// it.
package demo

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/config"
	"chosenoffset.com/lumen2d/internal/lighting"
	"chosenoffset.com/lumen2d/internal/render"
)

// Options configure an App.
type Options struct {
	Width, Height int

	// Rand drives the random scatter. Nil seeds from the clock.
	Rand *rand.Rand

	// Scenes are cycled with the n key. The first is loaded on start; with
	// none the demo starts from a random scatter.
	Scenes []config.SceneEntry
	Flags  config.Flags

	ShowHelp bool
	Markers  bool // draw a ring at every light
}

// Message is an on-screen note that fades out.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Gradient colours of the default background, centre and corners.
var (
	backgroundInner = gg.RGB(10.0/255, 10.0/255, 10.0/255)
	backgroundOuter = gg.Black
)

// App implements render.Game.
type App struct {
	renderer render.Renderer
	input    render.InputManager
	engine   render.Engine
	res      *lighting.Resources
	system   *lighting.System
	scatter  *Scatter
	opts     Options

	rotating   *lighting.Light
	background [2]gg.RGBA
	scene      int
	started    bool

	width, height int
	messages      []Message
}

// NewApp creates the demo. The glow shader is compiled here.
func NewApp(r render.Renderer, input render.InputManager, engine render.Engine, opts Options) (*App, error) {
	res, err := lighting.NewResources(r)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &App{
		renderer:   r,
		input:      input,
		engine:     engine,
		res:        res,
		system:     lighting.NewSystem(r, res, nil),
		scatter:    NewScatter(rng),
		opts:       opts,
		background: [2]gg.RGBA{backgroundInner, backgroundOuter},
		scene:      -1,
		width:      opts.Width,
		height:     opts.Height,
	}, nil
}

// System returns the lighting system the demo drives.
func (a *App) System() *lighting.System { return a.system }

// setup places the rotating light and fills the first scene.
func (a *App) setup() error {
	sysOpts := a.system.Options()
	sysOpts.Viewport = image.Pt(a.width, a.height)
	a.system.SetOptions(sysOpts)
	a.system.Setup()

	a.rotating = lighting.NewLight()
	a.rotating.SetPosition(lighting.Vec3{X: 2 * float64(a.width) / 3, Y: 2 * float64(a.height) / 3})
	a.rotating.SetViewAngle(120 * math.Pi / 180)

	if len(a.opts.Scenes) > 0 {
		return a.loadScene(0)
	}

	// Flags still apply to a scattered scene.
	var scene config.Scene
	scene.Resolve(a.opts.Flags)
	world, err := scene.Build()
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	world.Options.Viewport = image.Pt(a.width, a.height)
	a.system.SetOptions(world.Options)

	a.system.AddLights(a.scatter.Lights(2, a.width, a.height))
	a.system.AddShapes(a.scatter.Shapes(4, a.width, a.height))
	a.system.AddLight(a.rotating)
	a.system.AddLights(a.scatter.Spotlights(3, a.width, a.height))
	return nil
}

// loadScene replaces every light and shape with those of scene i. The
// rotating light is kept.
func (a *App) loadScene(i int) error {
	entry := a.opts.Scenes[i]
	scene, err := config.Load(entry.Path)
	if err != nil {
		return err
	}
	scene.Resolve(a.opts.Flags)
	world, err := scene.Build()
	if err != nil {
		return fmt.Errorf("demo: scene %s: %w", entry.Name, err)
	}

	world.Options.Viewport = image.Pt(a.width, a.height)
	a.system.SetOptions(world.Options)
	a.system.ClearLights()
	a.system.ClearShapes()
	a.system.AddLights(world.Lights)
	a.system.AddLight(a.rotating)
	a.system.AddShapes(world.Shapes)

	a.background = [2]gg.RGBA{world.Background, world.Background}
	a.scene = i
	a.ShowMessage("Scene: " + entry.Name)
	return nil
}

// Update handles input and advances the lights.
func (a *App) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0

	if a.input.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTerminated
	}

	if !a.started {
		if err := a.setup(); err != nil {
			return err
		}
		a.started = true
	}

	a.handleKeys()
	a.handleClicks()

	a.rotating.SetAngle(lighting.WrapAngle(a.rotating.Angle() + math.Pi/360))
	x, y := a.input.GetCursorPosition()
	a.rotating.SetPosition(lighting.Vec3{X: float64(x), Y: float64(y), Z: a.rotating.Position().Z})

	a.system.Update()
	a.updateMessages(dt)
	return nil
}

func (a *App) handleKeys() {
	switch {
	case a.input.IsKeyJustPressed(render.KeyL):
		a.system.AddLights(a.scatter.Lights(2, a.width, a.height))
		a.ShowMessage("Added 2 lights")
	case a.input.IsKeyJustPressed(render.KeyS):
		a.system.AddShapes(a.scatter.Shapes(4, a.width, a.height))
		a.ShowMessage("Added 4 shapes")
	case a.input.IsKeyJustPressed(render.KeyC):
		a.system.ClearLights()
		a.system.ClearShapes()
		a.ShowMessage("Cleared")
	case a.input.IsKeyJustPressed(render.KeySpace):
		a.engine.SetFullscreen(!a.engine.IsFullscreen())
	case a.input.IsKeyJustPressed(render.KeyN):
		if len(a.opts.Scenes) == 0 {
			a.ShowMessage("No scene files")
			return
		}
		next := (a.scene + 1) % len(a.opts.Scenes)
		if err := a.loadScene(next); err != nil {
			log.Printf("Failed to load scene: %v", err)
			a.ShowMessage("Failed to load " + a.opts.Scenes[next].Name)
		}
	}
}

// handleClicks drops a light or a shape at the cursor.
func (a *App) handleClicks() {
	x, y := a.input.GetCursorPosition()
	switch {
	case a.input.IsMouseButtonJustPressed(render.MouseButtonLeft):
		a.system.AddLight(a.scatter.LightAt(float64(x), float64(y)))
	case a.input.IsMouseButtonJustPressed(render.MouseButtonRight):
		a.system.AddShape(a.scatter.ShapeAt(float64(x), float64(y)))
	}
}

// Draw paints the background, the lit scene and the overlay.
func (a *App) Draw(screen render.Image) {
	w, h := screen.Size()
	a.res.DrawSolid(screen, backgroundMesh(w, h, a.background[0], a.background[1]), &render.DrawTrianglesOptions{
		Blend: render.BlendSourceOver,
	})

	a.system.Draw(screen)

	if a.opts.Markers {
		a.drawMarkers(screen)
	}
	a.drawUI(screen)
}

func (a *App) drawMarkers(screen render.Image) {
	for _, l := range a.system.Lights() {
		p := l.Position()
		a.renderer.StrokeCircle(screen, float32(p.X), float32(p.Y), 6, 1.5, l.Color().Color())
		a.renderer.FillCircle(screen, float32(p.X), float32(p.Y), 2, color.White)
	}
}

func (a *App) drawUI(screen render.Image) {
	white := color.RGBA{255, 255, 255, 255}
	if a.opts.ShowHelp {
		a.renderer.DrawText(screen, "l: lights  s: shapes  c: clear  n: next scene  space: fullscreen  click: place light/shape", 10, 10, white, 1.0)
		stats := a.system.Stats()
		a.renderer.DrawText(screen, fmt.Sprintf("lights %d  masks %d  culled %d", stats.Lights, stats.Masks, stats.Culled), 10, 28, white, 1.0)
	}

	// Draw on-screen messages
	y := 50.0
	for _, msg := range a.messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		a.renderer.DrawText(screen, msg.Text, 10, int(y), color.RGBA{alpha, alpha, alpha, alpha}, 1.0)
		y += 20
	}
}

// Layout resizes the lighting layers to the window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width = outsideWidth
		a.height = outsideHeight
		a.system.WindowResized(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Dispose releases the layers and shared resources.
func (a *App) Dispose() {
	a.system.Dispose()
	a.res.Dispose()
}

func (a *App) updateMessages(dt float64) {
	var active []Message
	for _, msg := range a.messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	a.messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (a *App) ShowMessage(text string) {
	a.messages = append(a.messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
}

// backgroundMesh is a fan from the screen centre to the four corners.
func backgroundMesh(w, h int, inner, outer gg.RGBA) render.Mesh {
	in, out := inner.Premultiply(), outer.Premultiply()
	v := func(x, y float64, c gg.RGBA) render.Vertex {
		return render.Vertex{
			DstX: float32(x), DstY: float32(y),
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
		}
	}
	fw, fh := float64(w), float64(h)
	return render.Mesh{
		Mode: render.MeshTriangleFan,
		Vertices: []render.Vertex{
			v(fw/2, fh/2, in),
			v(0, 0, out),
			v(fw, 0, out),
			v(fw, fh, out),
			v(0, fh, out),
			v(0, 0, out),
		},
	}
}
