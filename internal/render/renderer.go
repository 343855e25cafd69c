package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// ErrTerminated is returned from Game.Update to end the game loop cleanly.
var ErrTerminated = errors.New("render: terminated")

// Shader represents a compiled shader program.
type Shader interface {
	// Dispose releases shader resources.
	Dispose()
}

// ShaderCompiler compiles shaders from source code.
type ShaderCompiler interface {
	// CompileShader compiles shader source code into a Shader.
	CompileShader(src []byte) (Shader, error)
}

// Fragment returns the premultiplied colour of the pixel centred at (x, y).
type Fragment func(x, y float64) gg.RGBA

// FragmentProgram prepares a Fragment for one draw call's uniforms.
type FragmentProgram func(uniforms map[string]any) Fragment

// FragmentRegistrar is implemented by backends that cannot compile shader
// source themselves and instead run a Go program registered for it.
type FragmentRegistrar interface {
	RegisterFragment(src []byte, program FragmentProgram)
}

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// the lighting code.
type Renderer interface {
	ShaderCompiler

	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing markers)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Sub-image extraction
	SubImage(r image.Rectangle) Image

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)
	DrawTrianglesShader(vertices []Vertex, indices []uint16, shader Shader, opts *DrawTrianglesShaderOptions)

	// Resource management
	Dispose()
}

// Blend selects how source pixels combine with the destination. All colours
// are premultiplied.
type Blend int

const (
	// BlendSourceOver is regular alpha compositing: dst = src + dst*(1-srcA).
	BlendSourceOver Blend = iota
	// BlendMultiply darkens: dst = src*dst + dst*(1-srcA) on colour and
	// dst*(1-srcA) on alpha. Opaque black clears the destination to
	// transparent, transparent pixels leave it untouched.
	BlendMultiply
	// BlendAdd accumulates: dst = src + dst, saturating at the backend's range.
	BlendAdd
)

// String returns a string representation of the blend mode.
func (b Blend) String() string {
	switch b {
	case BlendSourceOver:
		return "source-over"
	case BlendMultiply:
		return "multiply"
	case BlendAdd:
		return "add"
	default:
		return "unknown"
	}
}

// DrawImageOptions contains options for drawing an image at the destination origin.
type DrawImageOptions struct {
	Blend Blend
}

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	Blend     Blend
	AntiAlias bool
}

// DrawTrianglesShaderOptions contains options for drawing triangles with a shader.
type DrawTrianglesShaderOptions struct {
	// Uniforms are the shader uniform values.
	Uniforms map[string]any
	Blend    Blend
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonJustPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the demo bindings
const (
	KeyL Key = iota // add lights
	KeyS            // add shapes
	KeyC            // clear lights and shapes
	KeyN            // next scene file
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft  MouseButton = iota // place a light
	MouseButtonRight                    // place a shape
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)
	SetFullscreen(fullscreen bool)
	IsFullscreen() bool

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
