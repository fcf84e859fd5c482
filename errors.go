package canopy

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailed is returned when the atlas has no free rectangle
	// large enough for a bitmap. The atlas never evicts, so the failure is
	// permanent for that key.
	ErrAllocationFailed = errors.New("canopy: atlas allocation failed")

	// ErrUnknownTexture is returned when a sprite names a texture key that is
	// not in the Bitmaps store.
	ErrUnknownTexture = errors.New("canopy: unknown texture")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("canopy: invalid config")
)

// AllocationError describes a bitmap that did not fit in the atlas.
type AllocationError struct {
	Key           string
	Width, Height int
	AtlasW        int
	AtlasH        int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("canopy: atlas allocation failed for %q (%dx%d in %dx%d atlas)",
		e.Key, e.Width, e.Height, e.AtlasW, e.AtlasH)
}

// Unwrap lets errors.Is match ErrAllocationFailed.
func (e *AllocationError) Unwrap() error {
	return ErrAllocationFailed
}
