package handler

import "net/http"

// NewRouter registers every API route. events, when non-nil, serves the
// server-sent event stream.
func NewRouter(commands *CommandHandler, requests *RequestHandler, events http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Plugin description
	mux.HandleFunc("GET /api/system", commands.GetSystem)
	mux.HandleFunc("GET /api/commands", commands.ListCommands)
	mux.HandleFunc("GET /api/commands/{name}", commands.GetCommand)

	// Command execution
	mux.HandleFunc("POST /api/commands/{name}", commands.ExecuteCommand)

	// Request history
	mux.HandleFunc("GET /api/requests", requests.ListRequests)
	mux.HandleFunc("GET /api/requests/{id}", requests.GetRequest)

	if events != nil {
		mux.Handle("GET /events", events)
	}
	return mux
}
