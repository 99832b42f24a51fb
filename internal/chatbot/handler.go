package chatbot

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	Bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{Bot: bot}
}

type chatReq struct {
	Message string    `json:"message"`
	History []Message `json:"history"`
}

// capMessage enforces the message length cap without splitting a multi-byte
// rune at the boundary.
func capMessage(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// PostHandler is the request/response chat endpoint: one message plus a
// bounded history in, one bot reply out.
func (h *Handler) PostHandler(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	message = capMessage(message)

	reply := h.Bot.Reply(c.Request.Context(), message, TrimHistory(req.History, maxHistory))

	c.JSON(http.StatusOK, gin.H{
		"response":  reply,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type wsIncoming struct {
	Text string `json:"text"`
}

type wsOutgoing struct {
	Type string    `json:"type"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// WSHandler runs a per-connection bot session. The server keeps the rolling
// history so clients only ever send the next message.
func (h *Handler) WSHandler(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	var history []Message
	for {
		var in wsIncoming
		if err := ws.ReadJSON(&in); err != nil {
			break
		}

		text := strings.TrimSpace(in.Text)
		if text == "" {
			continue
		}
		text = capMessage(text)

		reply := h.Bot.Reply(c.Request.Context(), text, history)

		history = append(history,
			Message{Role: "user", Content: text},
			Message{Role: "assistant", Content: reply},
		)
		history = TrimHistory(history, maxHistory)

		out := wsOutgoing{Type: "bot", Text: reply, At: time.Now().UTC()}
		if err := ws.WriteJSON(out); err != nil {
			break
		}
	}
}
