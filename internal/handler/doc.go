// Package handler implements the HTTP dispatcher for netcommand.
//
// # Routes
//
//	GET  /api/system             plugin description with every command
//	GET  /api/commands           command catalog
//	GET  /api/commands/{name}    one command and its parameter schema
//	POST /api/commands/{name}    run a command, body holds its parameters
//	GET  /api/requests           request history (command, status, limit filters)
//	GET  /api/requests/{id}      one recorded request
//	GET  /events                 server-sent request events
//
// # Encoding
//
// Response bodies are encoded according to the Accept header (JSON, YAML or
// CBOR, JSON when nothing matches). Request bodies are decoded according to
// Content-Type; an empty body means no parameters.
//
// # Status Codes
//
// POST /api/commands/{name} returns the recorded request. A successful
// command yields 200. Failed commands still return the request, with 400 for
// parameter validation errors, 409 for session state errors, 501 for
// operations the driver does not implement and 502 for other device errors.
// Error responses that carry no request use an {error, details} body.
package handler
