// Package api is the HTTP surface of the task tracker. Handlers decode and
// validate requests, call the service layer and translate its errors into
// status codes and safe messages. Routing lives in cmd/server.
package api
