// Package schema provides the principal schematics for all other packages. It
// wraps the operating system surfaces the engine depends on (filesystem
// syscalls, Unix-specific syscalls and external process execution), so that
// consuming packages can declare narrow provider interfaces and tests can
// substitute fakes. The package serves as a foundational layer for all
// operating system interactions throughout the codebase.
package schema
