package ws

import (
	"encoding/json"
	"sync"
)

// MeetingRoom relays WebRTC signaling between meeting participants. Unlike
// a two-peer call, a room can hold several participants; signaling messages
// carry a target user so peers can negotiate pairwise.
type MeetingRoom struct {
	MeetingID uint
	mu        sync.RWMutex
	peers     map[uint]*Client // userID -> client
}

func NewMeetingRoom(meetingID uint) *MeetingRoom {
	return &MeetingRoom{MeetingID: meetingID, peers: make(map[uint]*Client)}
}

func (r *MeetingRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[c.UserID] = c
}

func (r *MeetingRoom) Leave(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, userID)
}

func (r *MeetingRoom) PeerIDs() []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint, 0, len(r.peers))
	for id := range r.peers {
		ids = append(ids, id)
	}
	return ids
}

// SendTo delivers a signaling payload to one participant.
func (r *MeetingRoom) SendTo(userID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	c := r.peers[userID]
	r.mu.RUnlock()
	if c == nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Broadcast delivers a payload to every participant except the sender.
func (r *MeetingRoom) Broadcast(senderUserID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for uid, c := range r.peers {
		if uid == senderUserID {
			continue
		}
		select {
		case c.Send <- data:
		default:
		}
	}
}

type MeetingHub struct {
	mu    sync.RWMutex
	rooms map[uint]*MeetingRoom
}

func NewMeetingHub() *MeetingHub {
	return &MeetingHub{rooms: make(map[uint]*MeetingRoom)}
}

func (h *MeetingHub) GetOrCreateRoom(meetingID uint) *MeetingRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[meetingID]; ok {
		return r
	}
	r := NewMeetingRoom(meetingID)
	h.rooms[meetingID] = r
	return r
}

func (h *MeetingHub) GetRoom(meetingID uint) *MeetingRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[meetingID]
}

// DropRoomIfEmpty removes a room with no participants left.
func (h *MeetingHub) DropRoomIfEmpty(meetingID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[meetingID]; ok && len(r.PeerIDs()) == 0 {
		delete(h.rooms, meetingID)
	}
}
