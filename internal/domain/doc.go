// Package domain contains the core business entities of the task tracker:
// tasks with their status, priority and recurrence rules, the users that own
// them, and the chat messages that produced extracted tasks. It is independent
// of any storage or delivery mechanism.
package domain
