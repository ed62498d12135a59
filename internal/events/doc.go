// Package events decouples services from background work. Services emit
// typed events; handlers registered per type react to them.
package events
