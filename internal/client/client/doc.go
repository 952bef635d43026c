// Package client is the HTTP client for the TaskKeeper API.
//
// HTTPClient keeps the bearer token returned by Register and Login in memory
// and attaches it to every later request. Logout only drops the token; the
// server keeps no session state.
//
// Failed calls surface as *APIError carrying the HTTP status and the server's
// message. Transport failures wrap ErrUnavailable, and APIError values with
// status 401 match ErrUnauthorized under errors.Is.
package client
