package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fieldforce/config"
	"fieldforce/internal/auth"
	"fieldforce/internal/domain"

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

// UpgradeTrackWS upgrades a connection for the live dispatch map channel.
// Only supervisors and admins may watch; the server pushes the current
// marker snapshot on connect and marker updates as samples arrive.
func UpgradeTrackWS(cfg *config.JWTConfig, trackHub *TrackHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		if claims.Role != domain.RoleAdmin && claims.Role != domain.RoleSupervisor {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"forbidden"}`))
			return
		}
		client := &Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		trackHub.Register(client)
		defer client.Close()
		SendMarkers(client, trackHub.GetMarkers())
		go writePump(client, conn)
		readPump(conn)
	}
}

// signalMessage is a WebRTC signaling frame relayed between meeting peers.
// To is zero for room-wide frames (e.g. a new peer announcing itself).
type signalMessage struct {
	Type    string          `json:"type"`
	To      uint            `json:"to,omitempty"`
	From    uint            `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MeetingAccess reports whether a user may join a meeting room.
type MeetingAccess interface {
	CanJoin(userID, meetingID uint) bool
}

// UpgradeMeetingWS upgrades a connection for meeting signaling. Clients
// exchange SDP offers/answers and ICE candidates addressed pairwise.
func UpgradeMeetingWS(cfg *config.JWTConfig, meetingHub *MeetingHub, access MeetingAccess) gin.HandlerFunc {
	return func(c *gin.Context) {
		meetingID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
			return
		}
		meetingID := uint(meetingID64)
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		if access != nil && !access.CanJoin(claims.UserID, meetingID) {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"not a participant"}`))
			return
		}
		client := &Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		room := meetingHub.GetOrCreateRoom(meetingID)
		room.Join(client)
		defer func() {
			room.Leave(claims.UserID)
			room.Broadcast(claims.UserID, signalMessage{Type: "peer-left", From: claims.UserID})
			meetingHub.DropRoomIfEmpty(meetingID)
			client.Close()
		}()
		room.Broadcast(claims.UserID, signalMessage{Type: "peer-joined", From: claims.UserID})
		go writePump(client, conn)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg signalMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			msg.From = claims.UserID
			if msg.To != 0 {
				room.SendTo(msg.To, msg)
			} else {
				room.Broadcast(claims.UserID, msg)
			}
		}
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
