package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/minhanh/edushare-backend/changefeed"
	"github.com/minhanh/edushare-backend/models"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // theo từng materialID
	GlobalClients map[*websocket.Conn]*Client            // dành cho danh sách học liệu
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// Register theo materialID riêng (trang chi tiết học liệu)
func (h *Hub) Register(materialID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[materialID]; !ok {
		h.Clients[materialID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[materialID][conn] = client

	go writePump(client)
}

// Register global cho trang danh sách (dashboard giáo viên, trang học sinh)
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go writePump(client)
}

// Broadcast theo materialID
func (h *Hub) Broadcast(materialID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[materialID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Broadcast toàn bộ global clients
func (h *Hub) BroadcastGlobal(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// Unregister client theo materialID
func (h *Hub) Unregister(materialID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[materialID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, materialID)
		}
	}
}

// Unregister global client
func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// GetStats trả về số client đang kết nối (cho health check)
func (h *Hub) GetStats() map[string]interface{} {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	perMaterial := 0
	for _, clients := range h.Clients {
		perMaterial += len(clients)
	}
	return map[string]interface{}{
		"global_clients":   len(h.GlobalClients),
		"material_clients": perMaterial,
		"material_rooms":   len(h.Clients),
	}
}

// Write pump dùng chung. Nhận thẳng *Client từ Register nên không cần
// tra lại map, tránh đua với Unregister chạy trước khi goroutine kịp đọc.
func writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// BindFeed nối change feed vào hub: mỗi thay đổi học liệu đẩy một thông báo
// tới mọi client. Client nhận thông báo thì fetch lại danh sách, không tự
// merge payload vào cache cục bộ.
func BindFeed(feed *changefeed.Feed) {
	feed.Subscribe("ws-hub", func(evt changefeed.Event) {
		data, err := json.Marshal(map[string]interface{}{
			"type":  "study_materials_changed",
			"event": evt,
		})
		if err != nil {
			log.Println("JSON marshal error:", err)
			return
		}
		H.BroadcastGlobal(data)

		// Client đang mở đúng học liệu đó cũng được báo riêng
		switch p := evt.Payload.(type) {
		case *models.StudyMaterial:
			H.Broadcast(p.ID.String(), data)
		case models.StudyMaterial:
			H.Broadcast(p.ID.String(), data)
		case map[string]interface{}:
			if id, ok := p["id"].(string); ok {
				H.Broadcast(id, data)
			}
		}
	})
}

// UnbindFeed gỡ hub khỏi feed khi shutdown
func UnbindFeed(feed *changefeed.Feed) {
	feed.Unsubscribe("ws-hub")
}
