// Package recurrence computes the successor of a completed recurring task.
//
// The engine is pure: it never touches storage. Task stores call it once per
// transition into the completed status and persist the result in the same
// unit of work as the completion.
package recurrence
