// Package server holds the HTTP server configuration.
//
// The serve command exposes reference allocation and reconciliation over
// HTTP. This package defines the settings it needs: the listen port, the API
// key checked by the auth middleware, and whether API callers may write.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command to start Fiber.
package server
