package netsim

//
// Core data model shared by every component
//

// Updatable is the contract an external tick-driven runner uses to advance
// every component of the simulation. The runner guarantees that nowMS is
// strictly monotonic across calls and that intervalMS is constant within a
// run; it calls Update on every Host before calling Update on every Link.
type Updatable interface {
	// Update advances this component by intervalMS milliseconds of
	// simulated time, arriving at absolute simulated time nowMS.
	Update(intervalMS, nowMS int64)
}

// Logger is the logger used throughout this package for ordinary
// operational events (packet drops, packets a Router cannot forward). Invariant
// violations are reported through a separate, non-recoverable path; see
// the internal/assert package.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}

// NullLogger is a [Logger] that discards every message. It is the
// zero-dependency default used by tests and by constructors that receive a
// nil logger.
type NullLogger struct{}

var _ Logger = &NullLogger{}

// Debug implements Logger.
func (*NullLogger) Debug(message string) {}

// Debugf implements Logger.
func (*NullLogger) Debugf(format string, v ...any) {}

// Info implements Logger.
func (*NullLogger) Info(message string) {}

// Infof implements Logger.
func (*NullLogger) Infof(format string, v ...any) {}

// Warn implements Logger.
func (*NullLogger) Warn(message string) {}

// Warnf implements Logger.
func (*NullLogger) Warnf(format string, v ...any) {}

// orNullLogger returns logger unchanged unless it is nil, in which case it
// returns a [NullLogger]. Every constructor that accepts an optional
// [Logger] routes through this helper so the rest of the package never has
// to nil-check before logging.
func orNullLogger(logger Logger) Logger {
	if logger == nil {
		return &NullLogger{}
	}
	return logger
}
