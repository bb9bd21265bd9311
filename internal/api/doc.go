// Package api handles incoming HTTP requests for tasks and users: it parses
// query parameters and JSON bodies, calls the services and writes
// {"message", "data"} envelopes. Errors are translated to status codes in
// one place (MapErrorToStatusCode); 5xx responses never expose error text.
package api
