package handlers

import (
	"github.com/gin-gonic/gin"

	"khata-pos/internal/feedback"
)

// Events streams sound cues to the browser as Server-Sent Events.
func (h *Handler) Events(c *gin.Context) {
	events, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	send := func(e feedback.Event) {
		c.SSEvent("sound", string(e))
		c.Writer.Flush()
	}

	c.SSEvent("ready", h.Station)
	c.Writer.Flush()

	done := c.Request.Context().Done()
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			send(e)
		case <-done:
			// flush what was already queued
			for {
				select {
				case e := <-events:
					send(e)
				default:
					return
				}
			}
		}
	}
}
