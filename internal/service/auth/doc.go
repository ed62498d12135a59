// Package auth issues and validates the JWT credentials of the API and
// resolves bearer headers to user ids.
package auth
