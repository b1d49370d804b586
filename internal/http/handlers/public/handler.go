package public

import "github.com/Innovatio-dev/tof-checkout/internal/provider"

// Handler serves the public checkout API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
