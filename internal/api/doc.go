// Package api provides HTTP handlers for the learning progression API.
// Handlers translate HTTP requests into progression service calls and map
// service errors to sanitized responses; no business logic lives here.
package api
