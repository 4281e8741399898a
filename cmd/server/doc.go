// Command deskos runs the DeskOS session state service.
//
// Usage:
//
//	deskos serve [--config deskos.yaml] [--port 8000]
//	deskos cache stats|clear|sweep [--config deskos.yaml]
//
// Configuration comes from the environment (see the config package) with an
// optional YAML overlay. The cache commands operate on the file backend
// selected by CACHE_DIR.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown, pending writes are flushed
package main
