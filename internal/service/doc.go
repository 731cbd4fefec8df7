// Package service implements business logic for the netcommand dispatcher.
//
// This package sits between the HTTP handlers and the command facade and
// repository layers.
//
// # Services
//
// RequestService validates a requester's parameters against the command's
// schema, records the request, runs the command on the device and stores the
// outcome. Failures of the command itself are part of the recorded request,
// not errors of the service.
//
// SystemService describes the plugin identity and its command catalog.
//
// # Event System
//
// RequestService publishes request_created and request_completed events via
// EventBus for real-time updates to connected clients via Server-Sent Events.
package service
