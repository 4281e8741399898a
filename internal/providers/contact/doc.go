// Package contact is the client side of the contact relay.
//
// A Message is sanitised, validated and posted as JSON to the configured
// relay endpoint. Transport failures are retried with backoff, repeated relay
// failures open a circuit breaker, and local submissions are spaced out. Every
// failure surfaces as an *Error carrying one code of a closed set.
package contact
