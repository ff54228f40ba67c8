package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/services/statistics"
)

// FormatEvent renders an engine event as a channel message. An empty
// string means the event is not worth announcing.
func FormatEvent(event *broadcast.Event) string {
	switch event.Type {
	case broadcast.EventHandStarted:
		return fmt.Sprintf("🃏 Hand #%d. Dealer is seat %s.",
			payloadInt(event, "handNumber"), payloadString(event, "dealerSeat"))

	case broadcast.EventPlayerJoined:
		return fmt.Sprintf("Seat %s is taken.", payloadString(event, "seat"))

	case broadcast.EventPlayerLeft:
		return fmt.Sprintf("Seat %s is open again.", payloadString(event, "seat"))

	case broadcast.EventCardsDealt:
		if _, ok := event.Payload["discarded"]; ok {
			return fmt.Sprintf("Seat %s draws %d.",
				payloadString(event, "seat"), payloadInt(event, "discarded"))
		}
		return fmt.Sprintf("Dealing %s.", payloadString(event, "phase"))

	case broadcast.EventActionProcessed:
		return formatAction(event)

	case broadcast.EventPhaseChanged:
		// Phase transitions that deal cards announce themselves
		return ""

	case broadcast.EventReveal:
		if _, ok := event.Payload["mucked"]; ok {
			return fmt.Sprintf("Seat %s mucks.", payloadString(event, "seat"))
		}
		return fmt.Sprintf("Seat %s shows %s.",
			payloadString(event, "seat"), payloadString(event, "hand"))

	case broadcast.EventPotAwarded:
		return fmt.Sprintf("💰 %s of %d chips goes to seat %s.",
			payloadString(event, "pot"), payloadInt(event, "amount"),
			winnerList(event.Payload["winners"]))

	case broadcast.EventHandComplete:
		if announcement := payloadString(event, "announcement"); announcement != "" {
			return announcement
		}
		if _, carried := event.Payload["carried"]; carried {
			return "Nobody claims the pot. It carries to the next hand."
		}
		return fmt.Sprintf("Hand #%d is over.", payloadInt(event, "handNumber"))

	case broadcast.EventGamePaused:
		return fmt.Sprintf("⏸️ Table paused: %s.", payloadString(event, "reason"))

	case broadcast.EventGameCompleted:
		if payloadString(event, "reason") == "abandoned" {
			return "The table went quiet and has been closed."
		}
		return "The table is closed."
	}
	return ""
}

// formatLeaderboard renders the table leaderboard as a message
func formatLeaderboard(board *statistics.Leaderboard) string {
	if board == nil || len(board.Players) == 0 {
		return "No completed hands yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Leaderboard over %d hands:\n", board.HandsCounted)
	for _, stats := range board.Players {
		crown := ""
		if stats.IsTopWinner {
			crown = " 👑"
		}
		fmt.Fprintf(&sb, "%d. <@%s>: %d chips won, %d/%d hands%s\n",
			stats.Rank, stats.PlayerID, stats.ChipsWon, stats.HandsWon, stats.HandsPlayed, crown)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatAction(event *broadcast.Event) string {
	seat := payloadString(event, "seat")
	amount := payloadInt(event, "amount")
	if _, ok := event.Payload["timeout"]; ok {
		if payloadString(event, "action") == "FOLD" {
			return fmt.Sprintf("Seat %s timed out and folds.", seat)
		}
		return fmt.Sprintf("Seat %s timed out and checks.", seat)
	}
	switch payloadString(event, "action") {
	case "CHECK":
		return fmt.Sprintf("Seat %s checks.", seat)
	case "CALL":
		return fmt.Sprintf("Seat %s calls.", seat)
	case "FOLD":
		return fmt.Sprintf("Seat %s folds.", seat)
	case "BET":
		return fmt.Sprintf("Seat %s bets %d.", seat, amount)
	case "RAISE":
		return fmt.Sprintf("Seat %s raises to %d.", seat, amount)
	case "ALL_IN":
		return fmt.Sprintf("Seat %s is all in!", seat)
	case "STAY":
		return fmt.Sprintf("Seat %s stays.", seat)
	case "DROP":
		return fmt.Sprintf("Seat %s drops.", seat)
	}
	return fmt.Sprintf("Seat %s acts.", seat)
}

func payloadString(event *broadcast.Event, key string) string {
	value, ok := event.Payload[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

func payloadInt(event *broadcast.Event, key string) int {
	switch value := event.Payload[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	}
	return 0
}

func winnerList(value interface{}) string {
	var seats []int
	switch winners := value.(type) {
	case []int:
		seats = append(seats, winners...)
	case map[int]int:
		for seat := range winners {
			seats = append(seats, seat)
		}
	default:
		return fmt.Sprintf("%v", value)
	}
	sort.Ints(seats)
	parts := make([]string, len(seats))
	for i, seat := range seats {
		parts[i] = fmt.Sprintf("%d", seat)
	}
	return strings.Join(parts, ", ")
}
