// Package http exposes the session store as a local JSON control plane.
//
// Every mutating route maps onto exactly one store transition and answers
// with the resulting state slice. Unknown window ids and out-of-range track
// indices are 400s; malformed bodies are 400s from binding.
package http
