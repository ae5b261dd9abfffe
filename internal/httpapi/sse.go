package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/broadcaster"
)

// streamFillsHandler serves GET /fills/stream per §6's live-event channel.
func streamFillsHandler(bc *broadcaster.Broadcaster) gin.HandlerFunc {
	return bc.Handler("fills")
}
