// Package view is the presentation boundary. The core pushes per-tick
// frames (discrete states, facings, HUD numbers) to connected renderers
// over a websocket, and receives plain input signals back. Nothing else
// crosses in either direction.
package view

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"harvest-heist/client/internal/scene"
	"harvest-heist/client/internal/sim"
	"harvest-heist/client/internal/telemetry"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingInterval   = 20 * time.Second
	sendBufferSize = 16
)

// Hub fans frames out to every connected renderer and funnels their input
// signals into the frame loop's buffer.
type Hub struct {
	inputs  *sim.InputBuffer
	logger  telemetry.Logger
	upgrade websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub(inputs *sim.InputBuffer, logger telemetry.Logger) *Hub {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &Hub{
		inputs: inputs,
		logger: logger,
		upgrade: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// inputMessage is the wire form of one input signal from a renderer.
type inputMessage struct {
	Type string  `json:"type"`
	DirX float64 `json:"dirX"`
	DirY float64 `json:"dirY"`
	Slot int     `json:"slot"`
}

func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrade.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("view upgrade failed: %v", err)
			return
		}
		c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			conn.Close()
			return
		}
		h.clients[c] = struct{}{}
		h.mu.Unlock()

		go h.writePump(c)
		h.readPump(c)
	})
}

// PushFrame implements scene.ViewSink. Slow consumers lose frames rather
// than stalling the frame loop.
func (h *Hub) PushFrame(f scene.Frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		h.logger.Printf("frame encode failed: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inputMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Printf("view input decode failed: %v", err)
			continue
		}
		h.pushInput(msg)
	}
}

func (h *Hub) pushInput(msg inputMessage) {
	switch msg.Type {
	case "move":
		h.inputs.Push(sim.Input{Kind: sim.InputMove, DirX: msg.DirX, DirY: msg.DirY})
	case "stop":
		h.inputs.Push(sim.Input{Kind: sim.InputStop})
	case "attack":
		h.inputs.Push(sim.Input{Kind: sim.InputAttack})
	case "harvest":
		h.inputs.Push(sim.Input{Kind: sim.InputHarvest})
	case "drop":
		h.inputs.Push(sim.Input{Kind: sim.InputDrop, Slot: msg.Slot})
	case "move_random":
		h.inputs.Push(sim.Input{Kind: sim.InputMoveRandom})
	case "restart":
		h.inputs.Push(sim.Input{Kind: sim.InputRestart})
	default:
		h.logger.Printf("unknown view input %q", msg.Type)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Close disconnects every renderer.
func (h *Hub) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
		delete(h.clients, c)
	}
	return nil
}
