// internal/room/room.go
package room

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pascal-fortunati/uno-server/internal/game"
	"github.com/pascal-fortunati/uno-server/internal/models"
)

// Room is the single long-lived server instance: connection registry, host
// identity, the current game (if any), and the broadcast fan-out. All of
// the process's mutable room data lives here so a host reset can restore
// everything to a pristine start.
type Room struct {
	mu       sync.Mutex
	logger   *logrus.Logger
	clients  map[int64]*Client
	nextID   int64
	hostID   int64
	game     *game.UnoGame
	botDelay time.Duration
}

// New creates an empty room.
func New(logger *logrus.Logger, botDelay time.Duration) *Room {
	if logger == nil {
		logger = logrus.New()
	}
	return &Room{
		logger:   logger,
		clients:  make(map[int64]*Client),
		nextID:   1,
		botDelay: botDelay,
	}
}

// ElectHost picks the host among connected client ids: the lowest id still
// connected. Deterministic and independent of map iteration order.
func ElectHost(ids []int64) int64 {
	var host int64
	for _, id := range ids {
		if host == 0 || id < host {
			host = id
		}
	}
	return host
}

// Join registers a new connection: assigns the next sequential id and a
// default display name, elects a host if none exists, sends the welcome
// message, broadcasts the new roster, and — when a game is already running —
// synchronously syncs the joiner with the current state snapshot.
func (r *Room) Join(conn *websocket.Conn, cancel context.CancelFunc) *Client {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	c := newClient(id, fmt.Sprintf("Player %d", id), conn, cancel)
	r.clients[id] = c
	if r.hostID == 0 {
		r.hostID = id
	}

	c.Send(welcomeMessage{
		Type:    "welcome",
		ID:      id,
		Players: r.rosterLocked(),
		HostID:  hostIDField(r.hostID),
	})
	r.broadcastRosterLocked()
	g := r.game
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{"client": id, "host": r.HostID()}).Info("client joined")

	if g != nil {
		c.Send(gameStateMessage{Type: "gameState", State: g.Snapshot()})
	}
	return c
}

// Leave removes a connection and re-elects the host if the host left. An
// in-progress game is deliberately untouched: the seat stays and simply
// never acts again (the host's reset is the recovery path).
func (r *Room) Leave(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return
	}
	delete(r.clients, id)
	if r.hostID == id {
		r.hostID = ElectHost(r.clientIDsLocked())
		r.logger.Infof("host left, new host: %d", r.hostID)
	}
	r.broadcastRosterLocked()
}

// SetName updates a client's display name. Blank names keep the old one.
func (r *Room) SetName(id int64, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return
	}
	c.Name = name
	r.broadcastRosterLocked()
}

// StartGame builds fresh seats from the current roster and starts a new
// game. Host-only; requests from anyone else are silently ignored. Starting
// over a running game replaces it, exactly like the lobby start button.
func (r *Room) StartGame(id int64) {
	r.mu.Lock()
	if id != r.hostID {
		r.mu.Unlock()
		r.logger.Debugf("startGame from non-host %d ignored", id)
		return
	}

	seats := r.buildSeatsLocked()
	g := game.NewUnoGame(seats, r.logger)
	g.BotDelay = r.botDelay
	g.BroadcastFn = r.pushState
	old := r.game
	r.game = g
	r.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	g.Start()
}

// ResetAll is the host's nuke button: broadcast a reset signal, stop the
// engine, forcibly disconnect every client, and restore registry, host and
// the id counter to their initial values.
func (r *Room) ResetAll(id int64) {
	r.mu.Lock()
	if id != r.hostID {
		r.mu.Unlock()
		r.logger.Debugf("resetAll from non-host %d ignored", id)
		return
	}

	old := r.game
	disconnected := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		disconnected = append(disconnected, c)
	}
	r.game = nil
	r.clients = make(map[int64]*Client)
	r.hostID = 0
	r.nextID = 1
	r.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	for _, c := range disconnected {
		c.Send(gameResetMessage{Type: "gameReset"})
		c.CloseSend() // write pump drains the reset message, then closes
	}
	r.logger.Infof("room reset by host, %d clients disconnected", len(disconnected))
}

// PlayCard routes a playCard intent to the running game, if any.
func (r *Room) PlayCard(id int64, cardID int) {
	if g := r.currentGame(); g != nil {
		g.HandlePlayCard(id, cardID)
	}
}

// DrawCard routes a drawCard intent to the running game, if any.
func (r *Room) DrawCard(id int64) {
	if g := r.currentGame(); g != nil {
		g.HandleDrawCard(id)
	}
}

// SayUno routes a sayUno intent to the running game, if any.
func (r *Room) SayUno(id int64) {
	if g := r.currentGame(); g != nil {
		g.HandleSayUno(id)
	}
}

// ChooseColor routes a chooseColor intent to the running game, if any.
func (r *Room) ChooseColor(id int64, color models.Color) {
	if g := r.currentGame(); g != nil {
		g.HandleChooseColor(id, color)
	}
}

// HostID returns the current host's id, 0 when the room is empty.
func (r *Room) HostID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// Roster returns the current roster snapshot in join order.
func (r *Room) Roster() []RosterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

// Game returns the current game instance, or nil.
func (r *Room) Game() *game.UnoGame {
	return r.currentGame()
}

func (r *Room) currentGame() *game.UnoGame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game
}

// pushState is the engine's broadcast hook: full state to every connection.
// Invoked with the game lock held, so it must not call back into the game.
func (r *Room) pushState(st game.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := gameStateMessage{Type: "gameState", State: st}
	for _, c := range r.clients {
		if !c.Send(msg) {
			r.logger.Warnf("client %d: dropped gameState push", c.ID)
		}
	}
}

// clientIDsLocked returns all connected ids. Assumes lock is held.
func (r *Room) clientIDsLocked() []int64 {
	ids := make([]int64, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	return ids
}

// rosterLocked builds the roster snapshot sorted by id; ids are handed out
// sequentially, so id order is join order. Assumes lock is held.
func (r *Room) rosterLocked() []RosterEntry {
	ids := r.clientIDsLocked()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	roster := make([]RosterEntry, 0, len(ids))
	for _, id := range ids {
		c := r.clients[id]
		roster = append(roster, RosterEntry{ID: c.ID, Name: c.Name})
	}
	return roster
}

// broadcastRosterLocked pushes the roster and host id to every connection.
// Roster updates are independent of game state pushes. Assumes lock is held.
func (r *Room) broadcastRosterLocked() {
	msg := playersMessage{
		Type:    "players",
		Players: r.rosterLocked(),
		HostID:  hostIDField(r.hostID),
	}
	for _, c := range r.clients {
		c.Send(msg)
	}
}

// buildSeatsLocked fills the four seats: connected humans in join order
// first, bot seats after. Bot ids come from the same monotonic counter as
// connection ids, so the id space never collides. Assumes lock is held.
func (r *Room) buildSeatsLocked() []*models.Player {
	seats := make([]*models.Player, 0, game.Seats)
	for _, entry := range r.rosterLocked() {
		if len(seats) == game.Seats {
			break
		}
		seats = append(seats, &models.Player{ID: entry.ID, Name: entry.Name})
	}
	for len(seats) < game.Seats {
		id := r.nextID
		r.nextID++
		seats = append(seats, &models.Player{
			ID:    id,
			Name:  fmt.Sprintf("Bot %d", len(seats)+1),
			IsBot: true,
		})
	}
	return seats
}
