// Package api implements the REST client for the Genvid backend.
//
// Every endpoint shares a uniform response envelope (success flag, optional
// data payload, optional error body, optional pagination meta); the client
// decodes it once in a central place and surfaces backend rejections as
// *APIError. Authenticated endpoints verify a bearer token locally before any
// network round trip. Requests carry a uuid correlation id mirrored into
// structured logs, and an outbound rate limiter keeps polling loops polite.
//
// The package also owns the wire types (User, Project, Avatar, AuthSession)
// and small derived helpers such as pending-status checks and client-side
// avatar filtering.
package api
