// Package api implements the HTTP handlers for the task tracker. The
// handlers parse and validate requests, delegate to the service layer,
// and translate service errors to HTTP status codes. No business rules
// live here.
package api
