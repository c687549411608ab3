package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/programmatix/game-tracker/internal/pins"
	"github.com/programmatix/game-tracker/internal/tui/app"
	"github.com/programmatix/game-tracker/internal/tui/client"
)

func main() {
	wsURL := flag.String("url", "ws://127.0.0.1:8080/ws", "WebSocket URL of the ladder server")
	token := flag.String("token", os.Getenv("LADDER_AUTH_TOKEN"), "Auth token (if the server requires it)")
	localPins := flag.Bool("local-pins", false, "Keep pins on this device instead of on the server")
	user := flag.String("user", os.Getenv("LADDER_USERNAME"), "Username that owns local pins")
	stateDir := flag.String("state-dir", "", "Directory for local pins (default: XDG state dir)")
	flag.Parse()

	ws := client.NewWSClient(*wsURL, *token)
	httpClient := client.NewHTTPClient(deriveHTTPBase(*wsURL), *token)
	if *localPins {
		// Logs would corrupt the alternate screen.
		httpClient.UseLocalPins(pins.NewLocalStore(*stateDir, zerolog.Nop()), *user)
	}

	p := tea.NewProgram(app.New(ws, httpClient), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deriveHTTPBase converts ws://host:port/ws to http://host:port.
func deriveHTTPBase(wsURL string) string {
	u, err := url.Parse(wsURL)
	if err != nil || u.Host == "" {
		return "http://127.0.0.1:8080"
	}
	scheme := "http"
	if strings.HasPrefix(u.Scheme, "wss") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host)
}
