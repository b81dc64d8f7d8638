package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type EventType string

const (
	PairingsGenerated   EventType = "pairings_generated"
	MatchReported       EventType = "match_reported"
	TournamentCompleted EventType = "tournament_completed"
)

type Event struct {
	Type         EventType `json:"type"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Payload      any       `json:"payload"`
}

// Hub fans tournament events out to the websocket clients watching that tournament.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu             sync.RWMutex
	rooms          map[uuid.UUID]map[*Client]struct{}
	allowedOrigins []string
	logger         *slog.Logger
}

func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		rooms:          make(map[uuid.UUID]map[*Client]struct{}),
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Run serves registrations until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.room]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.room] = room
			}
			room[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("client joined", "tournament_id", client.room, "clients", len(room))

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, room := range h.rooms {
				for client := range room {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	room, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	close(client.send)
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.room)
	}
	h.logger.Debug("client left", "tournament_id", client.room, "clients", len(room))
}

// Clients returns the number of clients watching a tournament.
func (h *Hub) Clients(tournamentID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tournamentID])
}

// Publish never blocks. Clients whose buffer is full miss the event.
func (h *Hub) Publish(tournamentID uuid.UUID, eventType EventType, payload any) {
	msg, err := json.Marshal(Event{Type: eventType, TournamentID: tournamentID, Payload: payload})
	if err != nil {
		h.logger.Error("failed to encode event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tournamentID] {
		select {
		case client.send <- msg:
		default:
			h.logger.Warn("client buffer full, dropping event", "tournament_id", tournamentID, "type", eventType)
		}
	}
}

func (h *Hub) originAllowed(origin string) bool {
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.allowedOrigins, "*") || slices.Contains(h.allowedOrigins, origin)
}
