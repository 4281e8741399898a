/*
Package resilience provides a circuit breaker for calls leaving the process.

The contact relay client runs every submission through a Breaker so that a
failing relay is reported as service_unavailable immediately instead of
stacking up retries.

# Usage

	breaker := resilience.New("contact", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	resp, err := resilience.Execute(breaker, func() (*Response, error) {
		return client.Send(ctx, msg)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open

Time comes from a clock.Clock so transitions can be driven by a manual clock.
*/
package resilience
