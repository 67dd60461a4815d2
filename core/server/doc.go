// Package server holds the HTTP server configuration.
//
// The serve command owns the fiber application itself. This package defines
// the settings it reads: listen port, the optional API key and the request body
// limit that bounds object uploads.
package server
