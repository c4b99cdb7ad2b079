package distortion

import (
	"context"

	"airdistort/internal/logger"
	"airdistort/pkg/render"
)

// Pass distorts the camera color target in place. It blits the source
// through the distortion material into a temporary texture it owns, then
// copies the temporary back onto the source.
type Pass struct {
	event    render.PassEvent
	material *render.Material
	params   *render.ParamBlock
	dev      render.Device
	log      *logger.Logger

	source render.Texture
	temp   render.RTHandle
}

// NewPass creates a pass that draws with material and the fixed parameter
// block params. The block is copied; later edits by the caller are ignored.
func NewPass(dev render.Device, event render.PassEvent, material *render.Material, params *render.ParamBlock, log *logger.Logger) *Pass {
	return &Pass{
		event:    event,
		material: material,
		params:   params.Clone(),
		dev:      dev,
		log:      log,
	}
}

func (p *Pass) Name() string            { return PassName }
func (p *Pass) Event() render.PassEvent { return p.event }

// Setup hands the current frame's source color buffer to the pass
func (p *Pass) Setup(source render.Texture) {
	p.source = source
}

// Source returns the buffer handed to the last Setup
func (p *Pass) Source() render.Texture { return p.source }

// Temporary returns the intermediate texture, nil before the first frame
// and after Dispose
func (p *Pass) Temporary() render.Texture { return p.temp.Texture() }

// Reallocations returns how many times the temporary texture was created
func (p *Pass) Reallocations() int { return p.temp.Allocations() }

// Params returns a copy of the per-draw parameters the pass was built with
func (p *Pass) Params() *render.ParamBlock { return p.params.Clone() }

// OnCameraSetup matches the temporary texture to the camera target (without
// depth, point filtered, clamped) and makes it the pass's render target.
func (p *Pass) OnCameraSetup(cmd *render.CommandBuffer, frame *render.FrameData) error {
	desc := frame.Camera.TargetDescriptor
	desc.DepthBits = 0

	reallocated, err := p.temp.ReallocateIfNeeded(p.dev, desc, render.FilterPoint, render.WrapClamp, TemporaryTextureName)
	if err != nil {
		return err
	}
	if reallocated {
		p.log.Debugf("Allocated %s %v", TemporaryTextureName, desc)
	}

	cmd.SetRenderTarget(p.temp.Texture())
	return nil
}

// Execute records the two blits: source to temporary through the material,
// then temporary back to source.
func (p *Pass) Execute(ctx context.Context, cmd *render.CommandBuffer, frame *render.FrameData) error {
	if p.material == nil {
		return ErrNoMaterial
	}
	if p.source == nil {
		return ErrNoSource
	}
	temp := p.temp.Texture()
	if temp == nil {
		return ErrNotPrepared
	}
	if temp == p.source {
		return ErrAliasedTarget
	}

	params := p.params.Clone()
	params.SetVector(render.TimeID, frame.TimeVector())

	cmd.Blit(p.source, temp, p.material, params)
	cmd.Blit(temp, p.source, nil, nil)
	return nil
}

// OnCameraCleanup ends the temporary's use for this frame. The allocation
// itself is kept for the next frame and freed by Dispose.
func (p *Pass) OnCameraCleanup(cmd *render.CommandBuffer) {
	if t := p.temp.Texture(); t != nil {
		cmd.ReleaseTemporary(t)
	}
}

// Dispose frees the temporary texture. It is safe to call more than once.
func (p *Pass) Dispose() error {
	if p.temp.Texture() == nil {
		return nil
	}
	p.log.Debugf("Releasing %s", TemporaryTextureName)
	return p.temp.Release(p.dev)
}
