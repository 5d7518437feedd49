package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"calquiz-service/internal/app"
	"calquiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  *app.GameService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type namePayload struct {
	Name string `json:"name"`
}

type nameResult struct {
	Accepted bool                    `json:"accepted"`
	Snapshot *domain.SessionSnapshot `json:"snapshot,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one game session for the lifetime of the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	started := h.service.Start(ctx)
	sessionID := started.SessionID
	log := h.log.With(zap.String("session_id", sessionID))
	defer h.service.Leave(context.Background(), sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	<-updates // initial snapshot duplicates "started"

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: started}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.handle(ctx, log, sessionID, inbound) {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, log *zap.Logger, sessionID string, inbound inboundMessage) []outboundMessage[any] {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload")
		}
		outcome, err := h.service.SubmitAnswer(ctx, sessionID, payload.Answer)
		if err != nil {
			return errorMessage(err.Error())
		}
		out := []outboundMessage[any]{{Type: "answerResult", Payload: outcome}}
		if outcome.GameOver {
			summary, err := h.service.GameOverSummary(ctx, sessionID)
			if err != nil {
				log.Warn("game over summary", zap.Error(err))
				return out
			}
			out = append(out, outboundMessage[any]{Type: "gameOver", Payload: summary})
		}
		return out
	case "name":
		var payload namePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid name payload")
		}
		accepted, err := h.service.SubmitName(ctx, sessionID, payload.Name)
		if err != nil {
			if !errors.Is(err, domain.ErrGameInProgress) {
				log.Error("record score", zap.Error(err))
			}
			return errorMessage(err.Error())
		}
		result := nameResult{Accepted: accepted}
		if accepted {
			snap, err := h.service.Snapshot(ctx, sessionID)
			if err == nil {
				result.Snapshot = &snap
			}
		}
		return []outboundMessage[any]{{Type: "nameResult", Payload: result}}
	case "restart":
		snap, err := h.service.Restart(ctx, sessionID)
		if err != nil {
			return errorMessage(err.Error())
		}
		return []outboundMessage[any]{{Type: "started", Payload: snap}}
	default:
		return errorMessage("unsupported message type")
	}
}

func errorMessage(msg string) []outboundMessage[any] {
	return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: msg}}}
}
