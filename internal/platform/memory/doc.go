// Package memory provides in-process implementations of the store interfaces.
// They back the "memory" database driver and unit tests. Data lives only as
// long as the process.
package memory
