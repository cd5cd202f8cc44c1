package assistant

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nightwavefest/backend/internal/model/chat"
	"github.com/nightwavefest/backend/internal/model/lineup"
	assistantservice "github.com/nightwavefest/backend/internal/service/assistant"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// WebSocketHandler serves the realtime assistant channel.
type WebSocketHandler struct {
	assistantSvc *assistantservice.Service
	chatSvc      *chatservice.Service
	stages       lineup.Store
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(assistantSvc *assistantservice.Service, chatSvc *chatservice.Service, stages lineup.Store) *WebSocketHandler {
	return &WebSocketHandler{
		assistantSvc: assistantSvc,
		chatSvc:      chatSvc,
		stages:       stages,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/assistant/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type textPayload struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	stage, ok := h.stages.FindByID(session.StageID)
	if !ok {
		http.Error(w, "stage not found", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] new connection for session=%s stage=%s", sessionID, stage.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, sessionID, "connected", map[string]any{
		"stage":    stage.ID,
		"greeting": stage.OpeningLine,
		"live":     h.assistantSvc.LiveEnabled(),
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[ws] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(readTimeout))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(conn, sessionID, "session mismatch")
				continue
			}

			h.handleMessage(ctx, conn, sessionID, &msg)
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "message":
		var payload textPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.sendError(conn, sessionID, "invalid message payload")
			return
		}

		text := strings.TrimSpace(payload.Text)
		if text == "" {
			h.sendError(conn, sessionID, "text is required")
			return
		}

		reply := h.assistantSvc.Respond(ctx, text)
		h.persistWSTurn(ctx, sessionID, text, reply)

		h.send(conn, sessionID, "reply", map[string]any{
			"text":   reply.Text,
			"source": reply.Source,
		})
	case "ping":
		h.send(conn, sessionID, "pong", nil)
	default:
		h.sendError(conn, sessionID, "unknown message type")
	}
}

func (h *WebSocketHandler) persistWSTurn(ctx context.Context, sessionID, message string, reply assistantservice.Reply) {
	userMsg := chat.Message{SessionID: sessionID, Sender: "user", Content: message}
	if err := h.chatSvc.SaveMessage(ctx, userMsg); err != nil {
		log.Printf("[ws] failed to save user message: %v", err)
		return
	}

	assistantMsg := chat.Message{
		SessionID: sessionID,
		Sender:    "assistant",
		Content:   reply.Text,
		Source:    string(reply.Source),
	}
	if err := h.chatSvc.SaveMessage(ctx, assistantMsg); err != nil {
		log.Printf("[ws] failed to save assistant message: %v", err)
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, sessionID, msgType string, data interface{}) {
	out := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(out); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, sessionID, "error", map[string]string{"message": message})
}
