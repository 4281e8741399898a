/*
Package storage provides the durable key/value space the cache mirrors into.

A Backend is a flat string-keyed store with a byte quota. Writes that would
push the total above the quota fail with ErrQuotaExceeded and leave the
previous value untouched. Two implementations ship:

  - Memory: process-local map, used in tests and when no directory is set
  - File:   one file per key under a directory, surviving restarts

Neither backend knows about namespaces or envelopes; that belongs to the
cache layer above.
*/
package storage
