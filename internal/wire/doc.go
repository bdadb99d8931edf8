// Package wire defines the data model exchanged with a mechanical
// ventilator: the telemetry record kinds the device reports, the control
// commands the host can send back, and the small fixed vocabularies (alarm
// codes, ventilation modes, locales) both sides agree on independent of
// wire version.
//
// This package holds no I/O and no framing; see internal/protocol for that.
// It exists so internal/protocol's v1 and v2 parsers/serializers can share
// one definition of what a Boot, DataSnapshot, or AlarmTrap record means,
// instead of each wire version growing its own copy of the model.
//
// # Record kinds
//
// Every record implements Record, a marker method that exists only to keep
// the set of record kinds closed to this package's types:
//
//	var r wire.Record = wire.DataSnapshot{ /* ... */ }
//
// # Envelope
//
// Every record kind embeds a common envelope: protocol version, firmware
// version, device identity, and a monotonic systick. See Envelope.
//
// # Settings and commands
//
// Setting enumerates the thirty-one controllable parameters a host may
// write with a Command, by wire code; Setting.Info reports each one's
// name, default, and inclusive allowed range. ValidateCommand checks a
// Command against that table before it is handed to a serializer.
package wire
