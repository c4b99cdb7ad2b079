package render

import "context"

// Device owns GPU resources and executes recorded command buffers.
// Implementations are not safe for concurrent use.
type Device interface {
	// CreateTexture allocates a render texture
	CreateTexture(name string, desc TextureDescriptor, filter FilterMode, wrap WrapMode) (Texture, error)

	// ReleaseTexture frees a texture created by this device
	ReleaseTexture(t Texture) error

	// Submit executes every command of cmd in order
	Submit(ctx context.Context, cmd *CommandBuffer) error

	// Close releases every resource the device still owns
	Close() error
}
