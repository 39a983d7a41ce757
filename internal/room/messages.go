// internal/room/messages.go
package room

import "github.com/pascal-fortunati/uno-server/internal/game"

// RosterEntry is the public view of a connected client.
type RosterEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type welcomeMessage struct {
	Type    string        `json:"type"`
	ID      int64         `json:"id"`
	Players []RosterEntry `json:"players"`
	HostID  *int64        `json:"hostId"`
}

type playersMessage struct {
	Type    string        `json:"type"`
	Players []RosterEntry `json:"players"`
	HostID  *int64        `json:"hostId"`
}

type gameStateMessage struct {
	Type  string     `json:"type"`
	State game.State `json:"state"`
}

type gameResetMessage struct {
	Type string `json:"type"`
}

func hostIDField(hostID int64) *int64 {
	if hostID == 0 {
		return nil
	}
	return &hostID
}
