// Package logging builds the service's zap logger.
//
// Production mode writes JSON; development mode writes colored console lines
// and keeps stack traces. The level is held in an AtomicLevel so it can be
// raised or lowered while the service runs.
//
//	logger, err := logging.New(logging.FromConfig(cfg.Logging))
//	logger.Info("Server starting", zap.String("addr", cfg.Server.Addr()))
//
// Components receive the embedded *zap.Logger and name it for their area
// ("store", "cache", "ws", "contact").
package logging
