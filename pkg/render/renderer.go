package render

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"airdistort/internal/logger"
)

// Renderer schedules feature passes for a camera and submits their command
// buffers to a device, one pass at a time.
type Renderer struct {
	dev      Device
	log      *logger.Logger
	features []Feature
	queue    []Pass
	frame    *FrameData
	frames   uint64
}

// NewRenderer creates a renderer that submits to dev
func NewRenderer(dev Device, log *logger.Logger) *Renderer {
	return &Renderer{
		dev: dev,
		log: log.With("renderer"),
	}
}

// Device returns the device passes submit to
func (r *Renderer) Device() Device { return r.dev }

// Frames returns the number of frames rendered successfully
func (r *Renderer) Frames() uint64 { return r.frames }

// AddFeature creates f and registers it for every following frame
func (r *Renderer) AddFeature(f Feature) error {
	if err := f.Create(r.dev); err != nil {
		return fmt.Errorf("feature %q: create: %w", f.Name(), err)
	}
	r.features = append(r.features, f)
	r.log.Infof("Added feature %s", f.Name())
	return nil
}

// EnqueuePass schedules p for the frame being set up
func (r *Renderer) EnqueuePass(p Pass) {
	r.queue = append(r.queue, p)
}

// CameraColorTarget returns the color target of the frame being rendered,
// or nil outside RenderFrame
func (r *Renderer) CameraColorTarget() Texture {
	if r.frame == nil {
		return nil
	}
	return r.frame.Camera.ColorTarget
}

// RenderFrame runs every enqueued pass for frame in event order. Passes
// with the same event run in the order they were enqueued. The first
// failing pass aborts the frame.
func (r *Renderer) RenderFrame(ctx context.Context, frame *FrameData) error {
	if frame == nil || frame.Camera.ColorTarget == nil {
		return fmt.Errorf("render frame: %w", ErrNilTexture)
	}

	r.frame = frame
	r.queue = r.queue[:0]
	defer func() {
		r.frame = nil
		r.queue = r.queue[:0]
	}()

	for _, f := range r.features {
		if err := f.SetupPasses(r, frame); err != nil {
			return fmt.Errorf("feature %q: setup passes: %w", f.Name(), err)
		}
		f.AddPasses(r, frame)
	}

	sort.SliceStable(r.queue, func(i, j int) bool {
		return r.queue[i].Event() < r.queue[j].Event()
	})

	for _, p := range r.queue {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runPass(ctx, p, frame); err != nil {
			return err
		}
	}

	r.frames++
	return nil
}

func (r *Renderer) runPass(ctx context.Context, p Pass, frame *FrameData) error {
	cmd := NewCommandBuffer(p.Name())

	err := p.OnCameraSetup(cmd, frame)
	if err != nil {
		err = fmt.Errorf("pass %q: setup: %w", p.Name(), err)
	} else if execErr := p.Execute(ctx, cmd, frame); execErr != nil {
		err = fmt.Errorf("pass %q: execute: %w", p.Name(), execErr)
	}

	// cleanup runs even when setup or execute failed
	p.OnCameraCleanup(cmd)
	if err != nil {
		return err
	}

	r.log.Debugf("Submitting %s at %v (%d commands)", p.Name(), p.Event(), cmd.Len())
	if err := r.dev.Submit(ctx, cmd); err != nil {
		return fmt.Errorf("pass %q: submit: %w", p.Name(), err)
	}
	return nil
}

// Close disposes every feature. The device stays open.
func (r *Renderer) Close() error {
	var errs []error
	for _, f := range r.features {
		if err := f.Dispose(); err != nil {
			errs = append(errs, fmt.Errorf("feature %q: dispose: %w", f.Name(), err))
		}
	}
	r.features = nil
	return errors.Join(errs...)
}
