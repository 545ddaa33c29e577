// Package filesystem provides a small abstraction over filesystem access,
// enabling both production use with the OS filesystem and testing with
// in-memory filesystems.
package filesystem
