package broadcaster

import (
	"io"

	"github.com/gin-gonic/gin"
)

// Handler serves a live text/event-stream of fills for the given tag: a
// "connected" event on open, one "data:" event per delivery, and the
// broadcaster's own periodic ": ping" comments keeping the connection alive.
// Shared by the httpapi router (allinone/ingress deployments) and the
// standalone broadcaster process.
func (b *Broadcaster) Handler(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch, cancel := b.NewSubscriber(tag)
		defer cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case payload, ok := <-ch:
				if !ok {
					return false
				}
				if string(payload) == ": ping" {
					_, _ = w.Write([]byte(": ping\n\n"))
					return true
				}
				_, _ = w.Write([]byte("data: " + string(payload) + "\n\n"))
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
