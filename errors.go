package netsim

//
// Configuration errors: fatal, reported before a run starts. See spec.md
// §7 — these are distinct from "expected conditions" (buffer full,
// duplicate ACK, timeout) which are never errors.
//

import "fmt"

// ConfigError reports a topology that cannot be built: a Host with no
// Link, a Host that is not an endpoint of its attached Link, a Link with a
// nil endpoint, a Flow whose src or dst is not a Host, a non-positive rate
// or capacity, or a negative propagation delay (a zero propagation delay
// is accepted). It always
// names the offending entity id, mirroring the teacher's [ErrDial]
// aggregate-error style of reporting exactly what went wrong and where.
type ConfigError struct {
	// Entity names the offending entity (e.g. "host:3", "link:1").
	Entity string

	// Reason describes why the entity is invalid.
	Reason string
}

var _ error = &ConfigError{}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("netsim: invalid config for %s: %s", e.Entity, e.Reason)
}

// newConfigError is a small helper to keep constructors terse.
func newConfigError(entity, reason string) *ConfigError {
	return &ConfigError{Entity: entity, Reason: reason}
}
