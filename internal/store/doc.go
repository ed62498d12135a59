// Package store defines the persistence contracts for tasks, users and chat
// history, the errors every implementation returns, and the lifecycle rules
// shared by the PostgreSQL and in-memory task stores.
package store
