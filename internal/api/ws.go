package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/reservoir-app/reservoir/internal/auth"
)

// wsTurnTimeout bounds one interview turn over the websocket, including the
// completion call.
const wsTurnTimeout = 45 * time.Second

// ChatSocketHandler drives the interview over a websocket connection. Each
// connection gets its own session; an incoming text frame is treated as the
// answer to the previous question and replied to with the next one.
type ChatSocketHandler struct {
	*Handler
	devMode bool
}

// NewChatSocketHandler creates the websocket chat handler.
func NewChatSocketHandler(base *Handler, devMode bool) *ChatSocketHandler {
	return &ChatSocketHandler{Handler: base, devMode: devMode}
}

type wsClientMessage struct {
	UserResponse string `json:"userResponse"`
}

// ServeHTTP upgrades the connection and runs the interview loop.
func (h *ChatSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.devMode,
	})
	if err != nil {
		slog.Warn("websocket accept failed", "user_id", userID, "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "interview ended"); closeErr != nil {
			slog.Debug("websocket close", "error", closeErr)
		}
	}()

	sessionID := uuid.NewString()
	ctx := r.Context()

	// Open with the first question before waiting on the client.
	if done := h.sendTurn(ctx, ws, userID, sessionID, ""); done {
		return
	}

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 {
				slog.Debug("websocket read failed", "user_id", userID, "error", err)
			}
			return
		}

		var msg wsClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Tolerate clients that send the bare answer text.
			msg.UserResponse = string(data)
		}

		if done := h.sendTurn(ctx, ws, userID, sessionID, msg.UserResponse); done {
			return
		}
	}
}

// sendTurn runs one interview turn and writes the result. Returns true once
// the interview is complete or the connection is unusable.
func (h *ChatSocketHandler) sendTurn(ctx context.Context, ws *websocket.Conn, userID, sessionID, answer string) bool {
	turnCtx, cancel := context.WithTimeout(ctx, wsTurnTimeout)
	defer cancel()

	result, err := h.svc.NextQuestion(turnCtx, userID, sessionID, answer)
	if err != nil {
		slog.Error("websocket turn failed", "session_id", sessionID, "error", err)
		_ = h.writeJSON(turnCtx, ws, map[string]string{"error": "temporary problem generating your next question"})
		return true
	}

	if err := h.writeJSON(turnCtx, ws, result); err != nil {
		slog.Debug("websocket write failed", "session_id", sessionID, "error", err)
		return true
	}
	return result.IsComplete
}

// writeJSON writes under the turn context so a stalled peer cannot block the
// connection goroutine past the turn deadline.
func (h *ChatSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
