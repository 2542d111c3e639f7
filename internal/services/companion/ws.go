package companion

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/net/websocket"

	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/services/companion/templates"
)

// Websocket frame types.
const (
	frameState          = "state"
	frameFrame          = "frame"
	frameResult         = "result"
	frameHistoryCleared = "history_cleared"
	frameError          = "error"
)

// wsEventBuffer bounds queued controller events per connection.
const wsEventBuffer = 32

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type wsFramePayload struct {
	Mode    string                `json:"mode"`
	Display templates.DisplayView `json:"display"`
}

type wsResultPayload struct {
	Result templates.RollView   `json:"result"`
	State  templates.RollerView `json:"state"`
}

type wsErrorPayload struct {
	Message string `json:"message"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// handleWSConn streams controller events to one client. Events are queued
// without blocking the controller; when the queue overflows the client is
// sent a fresh state frame instead of the dropped events.
func (h *handlers) handleWSConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	request := conn.Request()
	loc := h.localizer(request)
	peer := &wsPeer{encoder: json.NewEncoder(conn)}

	events := make(chan roller.Event, wsEventBuffer)
	var lagged atomic.Bool
	unsubscribe := h.controller.Subscribe(func(event roller.Event) {
		select {
		case events <- event:
		default:
			lagged.Store(true)
		}
	})
	defer unsubscribe()

	if err := peer.writeFrame(h.stateFrame(loc, "")); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readWSFrames(conn, peer, loc)
	}()

	for {
		select {
		case <-done:
			return
		case event := <-events:
			if lagged.Swap(false) {
				drain(events)
				if err := peer.writeFrame(h.stateFrame(loc, "")); err != nil {
					return
				}
				continue
			}
			if err := peer.writeFrame(h.eventFrame(loc, event)); err != nil {
				return
			}
		}
	}
}

// readWSFrames answers client requests until the connection closes.
func (h *handlers) readWSFrames(conn *websocket.Conn, peer *wsPeer, loc templates.Localizer) {
	decoder := json.NewDecoder(conn)
	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("companion: websocket read: %v", err)
			}
			return
		}
		switch frame.Type {
		case frameState:
			if err := peer.writeFrame(h.stateFrame(loc, frame.RequestID)); err != nil {
				return
			}
		default:
			if err := peer.writeFrame(wsFrame{
				Type:      frameError,
				RequestID: frame.RequestID,
				Payload:   mustJSON(wsErrorPayload{Message: "unsupported frame type"}),
			}); err != nil {
				return
			}
		}
	}
}

func drain(events chan roller.Event) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}

func (h *handlers) stateFrame(loc templates.Localizer, requestID string) wsFrame {
	return wsFrame{
		Type:      frameState,
		RequestID: requestID,
		Payload:   mustJSON(newRollerView(loc, h.controller.Snapshot())),
	}
}

func (h *handlers) eventFrame(loc templates.Localizer, event roller.Event) wsFrame {
	switch event.Kind {
	case roller.EventFrame:
		return wsFrame{Type: frameFrame, Payload: mustJSON(wsFramePayload{
			Mode:    event.Mode.String(),
			Display: newDisplayView(event.Displayed),
		})}
	case roller.EventResult:
		payload := wsResultPayload{State: newRollerView(loc, h.controller.Snapshot())}
		if event.Result != nil {
			payload.Result = newRollView(loc, *event.Result)
		}
		return wsFrame{Type: frameResult, Payload: mustJSON(payload)}
	case roller.EventHistoryCleared:
		return wsFrame{Type: frameHistoryCleared}
	default:
		return h.stateFrame(loc, "")
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("companion: marshal websocket payload: %v", err)
		return nil
	}
	return b
}
