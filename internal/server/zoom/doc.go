// Package zoom talks to Zoom: it signs Meeting SDK and API tokens, calls
// the REST API with either server-to-server OAuth or a legacy JWT token,
// and synthesizes placeholder meetings when the API cannot be reached.
package zoom
