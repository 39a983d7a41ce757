// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pascal-fortunati/uno-server/internal/models"
	"github.com/pascal-fortunati/uno-server/internal/room"
)

// clientMessage is the envelope for every client intent. Fields not used by
// a given message type are simply left at their zero value.
type clientMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	CardID int    `json:"cardId,omitempty"`
	Color  string `json:"color,omitempty"`
}

// RoomWSHandler upgrades the HTTP connection to a websocket, registers the
// client with the room, and runs the read loop until the peer goes away.
func RoomWSHandler(logger *logrus.Logger, r *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		c, err := websocket.Accept(w, req, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		client := r.Join(c, cancel)
		logger.WithFields(logrus.Fields{
			"client": client.ID,
			"remote": req.RemoteAddr,
		}).Info("websocket connected")

		go client.WritePump(ctx, logger)

		readLoop(ctx, c, r, client.ID, logger)

		r.Leave(client.ID)
		logger.WithFields(logrus.Fields{
			"client": client.ID,
			"remote": req.RemoteAddr,
		}).Info("websocket disconnected")
	}
}

// readLoop consumes intent messages until the connection closes. Malformed
// input is dropped without a reply; every legality decision belongs to the
// room and game layers, which likewise reject bad requests silently.
func readLoop(ctx context.Context, c *websocket.Conn, r *room.Room, clientID int64, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return
			}
			logger.Debugf("client %d: read error: %v", clientID, err)
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debugf("client %d: dropping invalid JSON: %v", clientID, err)
			continue
		}

		switch msg.Type {
		case "setName":
			r.SetName(clientID, msg.Name)
		case "startGame":
			r.StartGame(clientID)
		case "resetAll":
			r.ResetAll(clientID)
		case "playCard":
			r.PlayCard(clientID, msg.CardID)
		case "drawCard":
			r.DrawCard(clientID)
		case "sayUno":
			r.SayUno(clientID)
		case "chooseColor":
			r.ChooseColor(clientID, models.Color(msg.Color))
		default:
			logger.Debugf("client %d: unknown message type %q", clientID, msg.Type)
		}
	}
}
