// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: a unique Request ID (RayID) for every incoming request, stored
//     in the context under "ray_id" and echoed in the X-Ray-ID header.
//
// These middleware components are registered globally by the serve command.
package middleware
