package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs wires one admin websocket connection into the hub.
func ServeWs(hub *Hub, c *websocket.Conn, adminID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, AdminID: adminID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
