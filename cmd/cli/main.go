package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"aniverse/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type listResponse[T any] struct {
	Total    int  `json:"total"`
	Items    []T  `json:"items"`
	Degraded bool `json:"degraded"`
}

func main() {
	global := flag.NewFlagSet("aniverse", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	profile := global.String("profile", "", "viewing profile (kids|normal)")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "anime":
		handleAnime(ctx, client, *baseURL, *profile, sub, args[2:])
	case "manga":
		handleManga(ctx, client, *baseURL, *profile, sub, args[2:])
	case "genres":
		handleGenres(ctx, client, *baseURL, *profile, sub, args[2:])
	case "orders":
		handleOrders(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "chat":
		handleChat(*baseURL, sub)
	case "health":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, *baseURL+"/health", "", nil, &resp); err != nil {
			log.Fatalf("health check failed: %v", err)
		}
		printJSON(resp)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ logged in")
	case "logout":
		token := mustToken(tokenPath)
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/logout", token, nil, nil); err != nil {
			log.Printf("server logout: %v", err)
		}
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: aniverse auth <login|logout>")
	}
}

func handleAnime(ctx context.Context, client *http.Client, baseURL, profile, sub string, args []string) {
	switch sub {
	case "list":
		var resp listResponse[models.Anime]
		if err := doJSON(ctx, client, http.MethodGet, withProfile(baseURL+"/anime", profile), "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "featured":
		var resp listResponse[models.Anime]
		if err := doJSON(ctx, client, http.MethodGet, withProfile(baseURL+"/anime/featured", profile), "", nil, &resp); err != nil {
			log.Fatalf("featured failed: %v", err)
		}
		printJSON(resp)
	case "show":
		slug := requireSlug("anime show", args)
		var resp models.Anime
		endpoint := withProfile(baseURL+"/anime/"+url.PathEscape(slug), profile)
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "episodes":
		slug := requireSlug("anime episodes", args)
		var resp listResponse[models.Episode]
		endpoint := withProfile(baseURL+"/anime/"+url.PathEscape(slug)+"/episodes", profile)
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("episodes failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniverse anime <list|featured|show|episodes>")
	}
}

func handleManga(ctx context.Context, client *http.Client, baseURL, profile, sub string, args []string) {
	switch sub {
	case "list":
		var resp listResponse[models.Manga]
		if err := doJSON(ctx, client, http.MethodGet, withProfile(baseURL+"/manga", profile), "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		slug := requireSlug("manga show", args)
		var resp models.Manga
		endpoint := withProfile(baseURL+"/manga/"+url.PathEscape(slug), profile)
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniverse manga <list|show>")
	}
}

func handleGenres(ctx context.Context, client *http.Client, baseURL, profile, sub string, args []string) {
	switch sub {
	case "list":
		var resp listResponse[models.Genre]
		if err := doJSON(ctx, client, http.MethodGet, withProfile(baseURL+"/genres", profile), "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "anime":
		slug := requireSlug("genres anime", args)
		var resp listResponse[models.Anime]
		endpoint := withProfile(baseURL+"/genres/"+url.PathEscape(slug)+"/anime", profile)
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("genre anime failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniverse genres <list|anime>")
	}
}

func handleOrders(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "list":
		fs := flag.NewFlagSet("orders list", flag.ExitOnError)
		status := fs.String("status", "", "status filter")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/admin/orders")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *status != "" {
			qv.Set("status", *status)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("orders show", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("order id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/admin/orders/"+url.PathEscape(*id), token, nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "set-status":
		fs := flag.NewFlagSet("orders set-status", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		status := fs.String("status", "", "new status (pending|paid|shipped|cancelled)")
		_ = fs.Parse(args)
		if *id == "" || *status == "" {
			log.Fatal("id and status are required")
		}

		payload := map[string]string{"status": *status}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPatch, baseURL+"/admin/orders/"+url.PathEscape(*id), token, payload, &resp); err != nil {
			log.Fatalf("set-status failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: aniverse orders <list|show|set-status>")
	}
}

func handleChat(baseURL, sub string) {
	switch sub {
	case "join":
		endpoint, err := websocketURL(baseURL, "/ws/chat")
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
		if err := runChatWS(endpoint); err != nil {
			log.Fatalf("chat failed: %v", err)
		}
	default:
		log.Fatal("usage: aniverse chat join")
	}
}

func runChatWS(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[chat] connected to %s, type a message and press enter", wsURL)

	go func() {
		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if text, ok := msg["text"].(string); ok {
				fmt.Printf("AniBot: %s\n", text)
			}
		}
	}()

	var line string
	for {
		if _, err := fmt.Scanln(&line); err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := conn.WriteJSON(map[string]string{"text": line}); err != nil {
			return err
		}
	}
}

func requireSlug(usage string, args []string) string {
	if len(args) == 0 || args[0] == "" {
		log.Fatalf("usage: aniverse %s <slug>", usage)
	}
	return args[0]
}

func withProfile(endpoint, profile string) string {
	if profile == "" {
		return endpoint
	}
	return endpoint + "?profile=" + url.QueryEscape(profile)
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.aniverse-token.json"
	}
	return filepath.Join(home, ".aniverse", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("aniverse <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|logout")
	fmt.Println("  anime list|featured|show|episodes")
	fmt.Println("  manga list|show")
	fmt.Println("  genres list|anime")
	fmt.Println("  orders list|show|set-status")
	fmt.Println("  chat join")
	fmt.Println("  health")
}
