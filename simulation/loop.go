package simulation

import (
	"time"

	"planetsystem/core"
)

// TickStep is the clock increment per displayed frame. It is constant per
// callback, so perceived speed follows the display refresh rate.
const TickStep = 0.005

// Label is a satellite caption positioned in screen pixels.
type Label struct {
	Text    string  `json:"text"`
	Target  string  `json:"target"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Visible bool    `json:"visible"`
}

// LabelSink receives the projected labels once per tick.
type LabelSink interface {
	PublishLabels(labels []Label, viewport Viewport)
}

// Renderer submits one frame.
type Renderer interface {
	Render()
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func()

func (f RenderFunc) Render() { f() }

// TickObserver is told how long each tick took.
type TickObserver interface {
	ObserveTick(d time.Duration)
}

// Loop is the per-frame update. Every field is optional; a nil collaborator
// skips its step.
type Loop struct {
	Uniforms   *core.UniformRegistry
	Satellites *Registry
	Animator   *Animator
	Camera     *Camera
	Controls   *Controls
	Labels     LabelSink
	Renderer   Renderer
	Observer   TickObserver

	viewport Viewport
	time     float64
	ticks    uint64
}

// Tick advances the clock one step and renders a frame.
func (l *Loop) Tick() {
	start := time.Now()

	l.time += TickStep
	l.ticks++

	if l.Uniforms != nil {
		l.Uniforms.Advance(TickStep)
	}
	if l.Satellites != nil {
		l.Satellites.Advance(1)
	}
	if l.Animator != nil {
		l.Animator.Apply(l.time)
	}
	if l.Labels != nil && l.Satellites != nil && l.Camera != nil {
		l.Labels.PublishLabels(ProjectLabels(l.Camera, l.viewport, l.Satellites.All()), l.viewport)
	}
	if l.Controls != nil {
		l.Controls.Update()
	}
	if l.Renderer != nil {
		l.Renderer.Render()
	}
	if l.Observer != nil {
		l.Observer.ObserveTick(time.Since(start))
	}
}

// Resize updates the camera aspect and the viewport used for labels.
func (l *Loop) Resize(width, height int) Viewport {
	if l.Camera == nil {
		l.viewport = Viewport{Width: max(width, 1), Height: max(height, 1)}
		return l.viewport
	}
	l.viewport = l.Camera.Resize(width, height)
	return l.viewport
}

func (l *Loop) Viewport() Viewport { return l.viewport }

// Time is the accumulated loop clock.
func (l *Loop) Time() float64 { return l.time }

func (l *Loop) Ticks() uint64 { return l.ticks }

// ProjectLabels places each satellite caption on screen. Satellites behind
// the camera are returned with Visible false.
func ProjectLabels(cam *Camera, vp Viewport, sats []*Satellite) []Label {
	labels := make([]Label, 0, len(sats))
	for _, s := range sats {
		ndc, behind := cam.Project(s.Position32())
		l := Label{Text: s.Label, Target: s.Target, Visible: !behind}
		if !behind {
			l.X, l.Y = vp.ToScreen(ndc)
		}
		labels = append(labels, l)
	}
	return labels
}
