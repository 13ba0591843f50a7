package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
)

// DispatchResult summarizes one broadcast
type DispatchResult struct {
	Delivered int
	Failed    int
}

// Dispatcher delivers room events to every member registered at dispatch time
type Dispatcher struct {
	registry  *Registry
	onFailure func(c *Client, err error)
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over registry. onFailure is called for
// every recipient whose send failed and must not block.
func NewDispatcher(registry *Registry, onFailure func(c *Client, err error), logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		onFailure: onFailure,
		logger:    logger.With("component", "dispatcher"),
	}
}

// Dispatch serializes ev once and enqueues it on each member of the room.
// A failed recipient never stops delivery to the others.
func (d *Dispatcher) Dispatch(roomID uint64, ev domain.Event) (DispatchResult, error) {
	data, err := json.Marshal(ev.Payload())
	if err != nil {
		return DispatchResult{}, fmt.Errorf("marshal %s event: %w", ev.Kind, err)
	}

	var res DispatchResult
	for _, c := range d.registry.Members(roomID) {
		if err := c.Send(data); err != nil {
			res.Failed++
			d.logger.Debug("send failed", "room_id", roomID, "client_id", c.ID, "error", err)
			if d.onFailure != nil {
				d.onFailure(c, err)
			}
			continue
		}
		res.Delivered++
	}

	d.logger.Debug("event dispatched",
		"room_id", roomID,
		"kind", ev.Kind,
		"from", ev.Username,
		"delivered", res.Delivered,
		"failed", res.Failed,
	)
	return res, nil
}
