package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"giftExchangeServer/api"
	"giftExchangeServer/game"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	onlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 2)
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: lobbywatch <game_id>")
	}
	gameID := os.Args[1]

	server := os.Getenv("SERVER_URL")
	if server == "" {
		server = "http://localhost:3000"
	}

	client := &http.Client{Timeout: 5 * time.Second}

	for {
		view, err := fetchView(client, server, gameID)
		if err != nil {
			fmt.Print("\033[2J\033[H")
			fmt.Println(errorStyle.Render("✗ " + err.Error()))
			time.Sleep(2 * time.Second)
			continue
		}
		online := fetchOnline(client, server, gameID)

		fmt.Print("\033[2J\033[H")
		fmt.Println(boardStyle.Render(renderBoard(view, online)))
		time.Sleep(2 * time.Second)
	}
}

func fetchView(client *http.Client, server, gameID string) (game.View, error) {
	var view game.View
	resp, err := client.Get(server + "/game/" + gameID)
	if err != nil {
		return view, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return view, fmt.Errorf("GET /game/%s: %s", gameID, resp.Status)
	}
	return view, json.NewDecoder(resp.Body).Decode(&view)
}

// fetchOnline is best-effort; the board renders without presence markers when
// the endpoint or Redis is unavailable.
func fetchOnline(client *http.Client, server, gameID string) map[string]bool {
	resp, err := client.Get(server + "/game/" + gameID + "/presence")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	var presence api.PresenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&presence); err != nil {
		return nil
	}
	online := make(map[string]bool, len(presence.Online))
	for _, id := range presence.Online {
		online[id] = true
	}
	return online
}

func renderBoard(view game.View, online map[string]bool) string {
	var s string
	s += titleStyle.Render("🎁 Gift Exchange - "+view.ID) + "\n"
	s += fmt.Sprintf("Phase: %s\n\n", view.Phase)

	names := make(map[string]string, len(view.Players))
	for _, p := range view.Players {
		names[p.ID] = p.Name
	}

	s += titleStyle.Render("Players") + "\n"
	for _, p := range view.Players {
		marker := dimStyle.Render("○")
		if online[p.ID] {
			marker = onlineStyle.Render("●")
		}
		line := fmt.Sprintf("%s %s", marker, p.Name)
		if p.ID == view.ActivePlayer {
			line = activeStyle.Render("▶ "+p.Name) + " " + marker
		}
		s += line + "\n"
	}

	s += "\n" + titleStyle.Render("Gifts") + "\n"
	if len(view.Gifts) == 0 {
		s += dimStyle.Render("none submitted yet") + "\n"
	}
	for _, g := range view.Gifts {
		switch g.State {
		case game.GiftOpened:
			s += fmt.Sprintf("🎀 %s -> %s (steals: %d)\n", g.Hint, names[g.HeldBy], g.StolenCount)
		default:
			s += fmt.Sprintf("🎁 %s\n", g.Hint)
		}
	}

	if view.Phase == game.PhaseFinished {
		s += "\n" + onlineStyle.Render("🏁 Game finished") + "\n"
	}
	s += "\n" + dimStyle.Render(time.Now().Format("15:04:05")+" refreshing every 2s")
	return s
}
