// Package domain defines the core types shared by the netcommand packages.
//
// # Driver Configuration
//
// DriverConfig is the immutable description of one managed device: the driver
// identifier, the address and credentials, the device timeout and any
// driver-specific optional arguments. It is created once at startup and
// handed to the session manager, which builds a driver from it every time a
// session is opened.
//
// # Errors
//
// ConnectionError reports failures to open or close a device session.
// StateError reports an attempt to implicitly close a session that a caller
// opened explicitly. Drivers return ErrNotImplemented for operations they do
// not support. Any other error is a driver error and is passed through
// untouched.
//
// # Requests
//
// Request records a single command invocation received by the dispatcher,
// following it from CREATED through IN_PROGRESS to SUCCESS or ERROR.
package domain
