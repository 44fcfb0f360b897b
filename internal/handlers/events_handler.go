package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/realtime"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 25 * time.Second

// EventsHandler streams change notifications over server-sent events. The
// client subscribes to the whole map (/api/events) or to one tip's detail
// view (/api/tips/:id/events) and refetches whenever a change arrives.
type EventsHandler struct {
	hub *realtime.Hub
}

func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) StreamTips(c *fiber.Ctx) error {
	return h.stream(c, realtime.ScopeTips)
}

func (h *EventsHandler) StreamTip(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}
	return h.stream(c, realtime.ScopeTip(tipID))
}

func (h *EventsHandler) stream(c *fiber.Ctx, scope string) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	changes, cancel := h.hub.Subscribe(scope)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		// Open the stream right away so the client's EventSource connects.
		fmt.Fprintf(w, "event: ready\ndata: {}\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				payload, err := json.Marshal(change)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				fmt.Fprintf(w, ": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
