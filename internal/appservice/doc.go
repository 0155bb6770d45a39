// Package appservice defines the boundary to the web-app management API:
// the resource types the wizards and the tunnel session manager operate on,
// the Service contract they consume, and an HTTP client implementing it.
package appservice
