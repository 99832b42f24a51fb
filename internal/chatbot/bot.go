// Package chatbot is the AniBot proxy: a keyword-gated front on the content
// platform's automation endpoint. Off-topic messages are declined locally;
// on-topic ones are forwarded with the brand system prompt and a bounded
// slice of conversation history.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"aniverse/pkg/utils"
)

const (
	maxMessageLen  = 500
	maxHistory     = 6
	declineMessage = "I'm AniBot, your anime and manga assistant! I can only help with anime and manga related questions. Would you like me to recommend something to watch, or do you have questions about a specific series?"
)

const systemPrompt = `You are AniBot, the friendly AI assistant for AniVerse - an anime and manga platform.

STRICT RULES - YOU MUST FOLLOW THESE:
1. You ONLY answer questions about anime, manga, Japanese animation, and related topics
2. If someone asks about ANYTHING else, politely decline and redirect to anime/manga topics
3. Keep responses concise (2-3 sentences for simple questions, up to a paragraph for complex ones)
4. You can recommend anime/manga, explain terminology, genres, and tropes
5. Never generate harmful, inappropriate, or adult content
6. If unsure about specific anime facts, admit it rather than making things up

Remember: You represent AniVerse, so be helpful, friendly, and focused on anime/manga!`

// topicKeywords gates what reaches the upstream model. Substring matching
// against the lowercased message, same recall-over-precision trade as the
// profile filter.
var topicKeywords = []string{
	"anime", "manga", "watch", "read", "recommend", "series", "episode",
	"character", "protagonist", "villain", "hero", "studio", "ghibli",
	"shounen", "shoujo", "seinen", "josei", "isekai", "mecha", "slice of life",
	"naruto", "one piece", "demon slayer", "attack on titan", "jujutsu",
	"dragon ball", "bleach", "death note", "fullmetal", "hunter", "my hero",
	"tokyo ghoul", "sword art", "steins", "code geass", "evangelion",
	"cowboy bebop", "spirited away", "your name", "akira", "ghost in the shell",
	"berserk", "vinland", "chainsaw", "spy x family", "frieren",
	"opening", "ending", "ost", "soundtrack", "seiyuu", "voice actor",
	"sub", "dub", "simulcast", "crunchyroll", "funimation",
	"otaku", "waifu", "husbando", "best girl", "best boy", "aniverse",
	"genre", "rating", "review", "season", "arc", "filler",
	"japanese", "japan", "animation", "animated", "cartoon",
	"manhwa", "manhua", "webtoon", "light novel", "visual novel",
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Bot struct {
	HTTP          *http.Client
	AutomationURL string
}

func NewBot(cfg utils.ChatbotConfig) *Bot {
	return &Bot{
		HTTP:          &http.Client{Timeout: 20 * time.Second},
		AutomationURL: cfg.AutomationURL,
	}
}

// OnTopic reports whether a message clears the anime/manga keyword gate.
func OnTopic(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range topicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// TrimHistory keeps the newest n messages.
func TrimHistory(history []Message, n int) []Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// Reply produces the bot's answer. It never returns an error: upstream
// failures fall back to canned responses so the chat stays alive.
func (b *Bot) Reply(ctx context.Context, message string, history []Message) string {
	if !OnTopic(message) {
		return declineMessage
	}
	if b.AutomationURL == "" {
		return fallbackResponse(message)
	}

	answer, err := b.callUpstream(ctx, message, TrimHistory(history, maxHistory))
	if err != nil {
		log.Printf("[chatbot] upstream: %v", err)
		return fallbackResponse(message)
	}
	return answer
}

func buildPrompt(message string, history []Message) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, m := range history {
			speaker := "AniBot"
			if m.Role == "user" {
				speaker = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, m.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User: %s\n\nRespond as AniBot:", message)
	return b.String()
}

func (b *Bot) callUpstream(ctx context.Context, message string, history []Message) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"prompt":       buildPrompt(message, history),
		"query":        message,
		"user_message": message,
	})
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.AutomationURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	answer := extractAnswer(body)
	if answer == "" {
		return "", fmt.Errorf("empty response")
	}
	return answer, nil
}

// extractAnswer copes with the automation endpoint's unstable response
// shape: plain text, or JSON with the answer under any of several keys,
// possibly nested one level.
func extractAnswer(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return strings.TrimSpace(string(body))
	}

	keys := []string{"response", "content", "message", "text", "result", "output", "answer"}
	for _, k := range keys {
		v, ok := doc[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			return strings.TrimSpace(val)
		case map[string]any:
			for _, inner := range []string{"text", "content", "message"} {
				if s, ok := val[inner].(string); ok {
					return strings.TrimSpace(s)
				}
			}
			raw, _ := json.Marshal(val)
			return strings.TrimSpace(string(raw))
		}
	}
	return ""
}

// fallbackResponse answers common on-topic queries when the upstream is
// unconfigured or down.
func fallbackResponse(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "recommend") || strings.Contains(lower, "suggest") || strings.Contains(lower, "watch"):
		return "Looking for recommendations? Here are some top picks: Frieren: Beyond Journey's End for fantasy adventure, Chainsaw Man for action, Spy x Family for comedy, or Vinland Saga for historical drama. What genre interests you most?"
	case strings.Contains(lower, "best") && (strings.Contains(lower, "anime") || strings.Contains(lower, "manga")):
		return "That's a tough question! Some critically acclaimed titles include Fullmetal Alchemist: Brotherhood, Steins;Gate, Attack on Titan, and Monster. For manga, Berserk, One Piece, and Vagabond are legendary. It really depends on your preferred genre!"
	case strings.Contains(lower, "genre"):
		return "Anime has many genres! Shounen (action-packed stories), Shoujo (romance-focused), Seinen (mature themes), Isekai (transported to another world), Slice of Life (everyday moments), Mecha (giant robots), and many more. Which one sounds interesting to you?"
	case strings.Contains(lower, "aniverse") || strings.Contains(lower, "website") || strings.Contains(lower, "platform"):
		return "Welcome to AniVerse! We're your destination for discovering anime and collecting manga. You can browse our anime collection, shop for manga volumes, and find your next favorite series. Check out our featured titles on the homepage!"
	}

	return "Great question about anime/manga! I'd love to help you explore the wonderful world of Japanese animation and comics. Could you be more specific about what you'd like to know? I can recommend series, explain genres, discuss characters, or help you find something to watch!"
}
