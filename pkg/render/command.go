package render

import "fmt"

// CommandKind identifies a recorded command
type CommandKind int

const (
	CmdSetRenderTarget CommandKind = iota
	CmdBlit
	CmdReleaseTemporary
)

func (k CommandKind) String() string {
	switch k {
	case CmdSetRenderTarget:
		return "set_render_target"
	case CmdBlit:
		return "blit"
	case CmdReleaseTemporary:
		return "release_temporary"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is one recorded operation. Blit uses Source, Target, Material and
// Params; SetRenderTarget and ReleaseTemporary use Target only.
type Command struct {
	Kind     CommandKind
	Source   Texture
	Target   Texture
	Material *Material
	Params   *ParamBlock
}

// CommandBuffer records GPU work for deferred submission to a Device.
// Recording never touches backend state.
type CommandBuffer struct {
	name     string
	commands []Command
}

// NewCommandBuffer creates an empty command buffer
func NewCommandBuffer(name string) *CommandBuffer {
	return &CommandBuffer{name: name}
}

// Name returns the label used for logging and profiling
func (cb *CommandBuffer) Name() string { return cb.name }

// SetRenderTarget makes t the active target for following draws
func (cb *CommandBuffer) SetRenderTarget(t Texture) {
	cb.commands = append(cb.commands, Command{Kind: CmdSetRenderTarget, Target: t})
}

// Blit draws src over the whole of dst. A nil material records a plain
// copy. params are captured at record time, so later edits to the block do
// not affect the recorded command.
func (cb *CommandBuffer) Blit(src, dst Texture, mat *Material, params *ParamBlock) {
	var captured *ParamBlock
	if params != nil {
		captured = params.Clone()
	}
	cb.commands = append(cb.commands, Command{
		Kind:     CmdBlit,
		Source:   src,
		Target:   dst,
		Material: mat,
		Params:   captured,
	})
}

// ReleaseTemporary marks the end of t's use within this buffer
func (cb *CommandBuffer) ReleaseTemporary(t Texture) {
	cb.commands = append(cb.commands, Command{Kind: CmdReleaseTemporary, Target: t})
}

// Commands returns a copy of the recorded commands
func (cb *CommandBuffer) Commands() []Command {
	out := make([]Command, len(cb.commands))
	copy(out, cb.commands)
	return out
}

// Len returns the number of recorded commands
func (cb *CommandBuffer) Len() int { return len(cb.commands) }

// Clear drops every recorded command
func (cb *CommandBuffer) Clear() {
	cb.commands = cb.commands[:0]
}

// ValidateBlit checks the texture arguments of a blit command
func ValidateBlit(c Command) error {
	if c.Source == nil || c.Target == nil {
		return ErrNilTexture
	}
	if c.Source == c.Target {
		return fmt.Errorf("%w (%s)", ErrAliasedBlit, c.Source.Name())
	}
	return nil
}
