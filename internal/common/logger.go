package common

// Logger is the diagnostic logging contract shared across pidlock packages.
// Components hold the interface rather than a concrete logger, and a nil
// Logger is always acceptable where one is optional.
type Logger interface {
	// Debug-level methods, written to the log file only

	// Info records an informational diagnostic message
	Info(format string, args ...interface{})

	// Warning records a recoverable problem
	Warning(format string, args ...interface{})

	// Error records a failure
	Error(format string, args ...interface{})

	// User-facing methods, written to the log file and to the user

	// InfoToUser informs the user regardless of verbosity settings
	InfoToUser(format string, args ...interface{})

	// WarningToUser warns the user regardless of verbosity settings
	WarningToUser(format string, args ...interface{})

	// StatusMessage prints operational status to the user
	StatusMessage(format string, args ...interface{})
}
