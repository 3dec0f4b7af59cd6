// Package viewer implements the interactive stroke preview loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/voxelforge/vrpaint/internal/engine/camera"
	"github.com/voxelforge/vrpaint/internal/engine/input"
	"github.com/voxelforge/vrpaint/internal/engine/renderer"
	"github.com/voxelforge/vrpaint/internal/engine/stroke"
	"github.com/voxelforge/vrpaint/internal/engine/window"
	"github.com/voxelforge/vrpaint/internal/logger"
	math "github.com/voxelforge/vrpaint/pkg/math"
)

// knotsPerSecond is the replay rate for the recorded stroke.
const knotsPerSecond = 30.0

// Config holds viewer configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// RecordedKnot is one sample of the stroke being replayed.
type RecordedKnot struct {
	Position    math.Vec3
	Pressure    float32
	Orientation math.Quat
}

// Viewer replays a recorded stroke knot by knot and draws the mesh as it
// grows, with an orbit camera for inspection.
type Viewer struct {
	config  Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	stroke   *stroke.Stroke
	recorded []RecordedKnot
	next     int
	replayT  float64
	dirty    bool
	dragging bool

	width  int
	height int
}

// New creates a viewer replaying the given stroke recording. The stroke must
// be empty; the viewer owns it from here on.
func New(cfg Config, st *stroke.Stroke, recorded []RecordedKnot) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	v := &Viewer{
		config:   cfg,
		stroke:   st,
		recorded: recorded,
		width:    cfg.Width,
		height:   cfg.Height,
	}

	// Create window (this also creates the OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since the OpenGL context must exist)
	v.renderer, err = renderer.New(st.Layout())
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Resize(cfg.Width, cfg.Height)

	v.input = input.New()
	v.camera = camera.New()
	v.camera.FitToBounds(recordingBounds(recorded))

	logger.Info("viewer initialized", zap.Int("recorded_knots", len(recorded)))
	return v, nil
}

// NewWithDemo creates a viewer replaying the built-in demo stroke.
func NewWithDemo(cfg Config, brush stroke.Brush) (*Viewer, error) {
	st := stroke.New(brush, stroke.Color{0.9, 0.35, 0.2, 1})
	return New(cfg, st, demoRecording())
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		v.update(dt)
		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.width, v.height = event.Width, event.Height
			v.renderer.Resize(event.Width, event.Height)

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_R:
				v.restart()
			}

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				v.dragging = true
			}

		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}

		case input.EventMouseMove:
			if v.dragging {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}

		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.WheelY))
		}
	}
}

// update feeds recorded knots into the stroke at the replay rate.
func (v *Viewer) update(dt float64) {
	if v.next >= len(v.recorded) {
		return
	}

	v.replayT += dt * knotsPerSecond
	for v.next < len(v.recorded) && float64(v.next) < v.replayT {
		k := v.recorded[v.next]
		v.stroke.AppendKnot(k.Position, k.Pressure, k.Orientation)
		v.next++
		v.dirty = true
	}
	if v.next == len(v.recorded) {
		buf := v.stroke.Geometry()
		logger.Info("replay complete",
			zap.Int("knots", v.stroke.KnotCount()),
			zap.Int("vertices", buf.VertexCount()),
			zap.Int("triangles", buf.TriangleCount()),
		)
	}
}

// restart rewinds the replay to the empty stroke.
func (v *Viewer) restart() {
	v.stroke.TruncateKnots(0)
	v.next = 0
	v.replayT = 0
	v.dirty = true
	logger.Info("replay restarted")
}

func (v *Viewer) render() {
	if v.dirty {
		v.renderer.Upload(v.stroke.Geometry())
		v.dirty = false
	}

	aspect := float32(v.width) / float32(v.height)
	proj := math.Perspective(math32.Pi/4, aspect, 0.01, 100)
	viewProj := proj.Mul(v.camera.ViewMatrix())

	lightDir := math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize()
	v.renderer.Draw(viewProj, lightDir)
}

// demoRecording builds the stroke the viewer replays when no recording is
// supplied: a helix with breathing pressure, the same shape the offline
// generator exports.
func demoRecording() []RecordedKnot {
	const (
		knots  = 120
		radius = 0.25
		pitch  = 0.12
		step   = 2 * math32.Pi / 48
	)
	rec := make([]RecordedKnot, 0, knots)
	for i := 0; i < knots; i++ {
		theta := float32(i) * step
		sin, cos := math32.Sincos(theta)
		rec = append(rec, RecordedKnot{
			Position: math.Vec3{
				X: radius * cos,
				Y: pitch * theta / (2 * math32.Pi),
				Z: radius * sin,
			},
			Pressure:    0.6 + 0.3*math32.Sin(float32(i)*0.17),
			Orientation: math.QuatIdentity(),
		})
	}
	return rec
}

// recordingBounds returns the axis-aligned bounds of the recorded positions.
func recordingBounds(rec []RecordedKnot) (min, max math.Vec3) {
	if len(rec) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min, max = rec[0].Position, rec[0].Position
	for _, k := range rec[1:] {
		min.X = math32.Min(min.X, k.Position.X)
		min.Y = math32.Min(min.Y, k.Position.Y)
		min.Z = math32.Min(min.Z, k.Position.Z)
		max.X = math32.Max(max.X, k.Position.X)
		max.Y = math32.Max(max.Y, k.Position.Y)
		max.Z = math32.Max(max.Z, k.Position.Z)
	}
	return min, max
}
