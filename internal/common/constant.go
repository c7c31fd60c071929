// Package common contains shared constants and sentinel errors used across
// TaskKeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the exact (case-sensitive) prefix expected in the
// Authorization header.
const BearerScheme = "Bearer "
