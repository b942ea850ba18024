package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
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
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives one quiz session over the socket.
// Every session transition is pushed as a "session" message; closing the
// socket closes the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The request context ends with the handler; session work must not.
	ctx := context.WithoutCancel(r.Context())
	opened := h.service.Open(ctx, r.URL.Query().Get("sessionId"))
	sessionID := opened.SessionID
	log := h.logger.With("session_id", sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	defer h.service.Close(ctx, sessionID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", "error", err)
				// Keep draining so producers never block on a dead socket.
				for range send {
				}
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "session", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.dispatch(ctx, sessionID, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Info("ws disconnected")
}

// dispatch applies one inbound event. Transitions are reported through the
// subscription; only answer results and errors get a direct reply.
func (h *WSHandler) dispatch(ctx context.Context, sessionID string, in inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch in.Type {
	case "start":
		_, err = h.service.Start(ctx, sessionID)
	case "answer":
		var payload answerPayload
		if jsonErr := json.Unmarshal(in.Payload, &payload); jsonErr != nil {
			return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "invalid_payload", Message: "invalid answer payload"}}, true
		}
		var result domain.AnswerResult
		result, _, err = h.service.Answer(ctx, sessionID, payload.Option)
		if err == nil {
			return outboundMessage[any]{Type: "answerResult", Payload: result}, true
		}
	case "continue":
		_, err = h.service.Continue(ctx, sessionID)
	case "finish":
		_, err = h.service.Finish(ctx, sessionID)
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "unsupported", Message: "unsupported message type"}}, true
	}
	if err != nil {
		return outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}, true
	}
	return outboundMessage[any]{}, false
}

func toErrorPayload(err error) errorPayload {
	code := "internal"
	switch {
	case errors.Is(err, domain.ErrInvalidOption):
		code = "invalid_option"
	case errors.Is(err, domain.ErrInvalidTransition):
		code = "invalid_transition"
	case errors.Is(err, domain.ErrSessionNotFound):
		code = "session_not_found"
	case errors.Is(err, domain.ErrSessionClosed):
		code = "session_closed"
	}
	return errorPayload{Code: code, Message: err.Error()}
}
