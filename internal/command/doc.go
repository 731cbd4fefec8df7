// Package command maps public command names onto driver operations.
//
// The command table (DefaultOperations) is declarative: each Operation names
// the driver method it calls, the parameters a requester may pass, and how
// those parameters are reshaped for the driver. Facade.Invoke is the single
// dispatch path shared by every command: it acquires scoped session access,
// calls the driver and returns its result unchanged.
//
// Parameter schemas are consumed by the dispatcher. Operation.Bind validates a
// requester's arguments and fills in defaults before the facade sees them; the
// facade itself never validates.
package command
