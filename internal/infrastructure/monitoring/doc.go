/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

Metrics are Prometheus collectors registered on a per-instance registry, so
tests and multiple servers in one process never collide on registration.
Every recording method is safe on a nil *Metrics, which lets domain packages
take an optional collector without guarding each call.

# Metric Families

  - deskos_http_*: request count, latency and sizes per route
  - deskos_store_transitions_total: state transitions by operation
  - deskos_cache_*: cache operations by result, evictions by reason, bytes
  - deskos_coalesced_writes_total: deferred writes by strategy and outcome
  - deskos_subscribers / deskos_ws_*: view subscriptions and stream clients
  - deskos_contact_requests_total: relay submissions by result code

# Usage

	m := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(m))
	router.GET("/metrics", gin.WrapH(m.Handler()))
*/
package monitoring
