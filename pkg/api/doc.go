// Package api serves the layout engine over HTTP.
//
// The service is stateless. Each request posts a complete JSON document (the
// same shape [document.Encode] writes) and receives a derived result:
//
//	GET  /healthz                  liveness probe
//	POST /v1/layout                resolved positions and their bounds
//	POST /v1/render?format=svg|dot rendered map
//	POST /v1/check                 integrity report
//
// Errors are returned as {"error": ..., "code": ...} with a status derived
// from the error code. Requests are logged through the configured
// charmbracelet logger and reported to [observability.HTTP].
package api
