// Package memory holds configuration and run history in process memory.
// main uses it for CURRICULA_EPHEMERAL runs and when the run database
// cannot be opened; service tests use it in place of the file stores.
package memory
