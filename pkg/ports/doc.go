/*
Package ports defines the driven ports (interfaces) for searchgrid's outer
surfaces.

These interfaces decouple the HTTP and command-line layers from concrete
backends, so stored search specifications can live in memory, Redis, or
SQLite without the callers changing.

# Key Interfaces

  - SpecStore: persists search specification documents by ID.
*/
package ports
