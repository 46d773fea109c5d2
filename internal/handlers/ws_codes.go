// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the board handler.
const (
	BadSubprotocolError = 3000 // Client connected without the "board" subprotocol.
	BoardGoneError      = 3003 // The board was closed while the client was connected.
)
