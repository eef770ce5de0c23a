// Package api holds the HTTP handlers of the diary service. Handlers decode
// and validate requests, call the services and translate their sentinel
// errors into status codes and safe messages (see errors.go). Routing and
// middleware composition live in cmd/server.
package api
