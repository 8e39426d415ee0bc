package transport

import (
	"time"

	"github.com/menta2k/vcollage/internal/service"
	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/processing"
)

// Defaults fill in request parameters the client leaves out
type Defaults struct {
	Params         compositor.Params
	Limits         compositor.Limits
	Format         processing.Format
	MaxUploadBytes int64
	RenderTimeout  time.Duration
}

type CollageHandler struct {
	service  service.CollageService
	defaults Defaults
	encoder  *processing.Processor
}

func NewCollageHandler(service service.CollageService, defaults Defaults) *CollageHandler {
	if defaults.Format == "" {
		defaults.Format = processing.JPEG
	}
	if defaults.MaxUploadBytes <= 0 {
		defaults.MaxUploadBytes = 64 << 20
	}
	return &CollageHandler{
		service:  service,
		defaults: defaults,
		encoder:  processing.NewProcessor(),
	}
}
