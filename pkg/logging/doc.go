// Package logging provides subsystem-tagged structured logging for the
// application, built on log/slog.
//
// Call Init once at startup, then use the level functions with a short
// subsystem tag:
//
//	logging.Info("OAuth", "stored credential for user=%s", userID)
package logging
