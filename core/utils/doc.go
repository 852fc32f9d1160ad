// Package utils provides small conversion helpers shared by the HTTP
// handlers, mainly for reading query parameters.
package utils
