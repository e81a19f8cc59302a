// Package log provides logging that never leaks author identities, built on
// top of the standard slog package.
//
// blindcheck reads anonymous submissions and, with a roster, the real names
// and emails of their authors. Logs are often pasted into issue trackers or
// shared with other program committee members, so the RedactingHandler masks:
//   - attributes whose key names an identity (email, author, authors, name)
//   - any string value shaped like an email address
//
// Groups are sanitized recursively. Even in verbose mode, masked values stay
// masked.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("blinded email accepted",
//	    "email", "anonymous@example.org", // Will be masked
//	    "file", "icse2021-paper13.pdf",
//	)
//
//	slog.SetDefault(logger)
package log
