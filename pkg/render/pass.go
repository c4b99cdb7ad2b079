package render

import "context"

// CameraData is the per-camera state a frame renders into
type CameraData struct {
	Name             string
	TargetDescriptor TextureDescriptor
	ColorTarget      Texture
}

// FrameData is handed to every pass of a frame
type FrameData struct {
	Camera     CameraData
	Time       float64 // seconds since start
	DeltaTime  float64
	FrameIndex uint64
}

// TimeVector returns the shader time vector (t/20, t, 2t, 3t)
func (f *FrameData) TimeVector() [4]float32 {
	t := float32(f.Time)
	return [4]float32{t / 20, t, t * 2, t * 3}
}

// Pass is one unit of rendering work scheduled at an event. For every
// frame the renderer calls OnCameraSetup, Execute and OnCameraCleanup in
// that order, all recording into the same command buffer.
type Pass interface {
	Name() string
	Event() PassEvent
	OnCameraSetup(cmd *CommandBuffer, frame *FrameData) error
	Execute(ctx context.Context, cmd *CommandBuffer, frame *FrameData) error
	OnCameraCleanup(cmd *CommandBuffer)
}

// Feature contributes passes to a renderer
type Feature interface {
	Name() string

	// Create builds the feature's passes and resources. It is called once
	// when the feature is added and may be called again to rebuild.
	Create(dev Device) error

	// SetupPasses hands per-frame inputs to the feature's passes
	SetupPasses(r *Renderer, frame *FrameData) error

	// AddPasses enqueues the feature's passes for this frame
	AddPasses(r *Renderer, frame *FrameData)

	// Dispose releases everything Create allocated
	Dispose() error
}
