// Package server composes the DeskOS service: configuration, logging,
// metrics, the durable cache, the session store and the HTTP and websocket
// surfaces over it.
//
// Responses other than the websocket stream are gzip compressed when the
// client accepts it.
package server
