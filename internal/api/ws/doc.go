// Package ws streams desktop state to views over WebSocket.
//
// Each connection receives the current state on connect and again after
// every store transition. Bursts are coalesced: a slow client only ever
// receives the newest state, never a backlog.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - get_state: Request the current state
//
// Message Types (Server → Client):
//   - system: Connection greeting
//   - state: Desktop state snapshot
//   - pong: Ping reply
//   - error: Unknown or malformed message
//
// Example Usage:
//
//	handler := ws.NewHandler(store, ws.Options{Metrics: metrics})
//	router.GET("/stream", handler.HandleConnection)
package ws
