// Package services implements the driving port interfaces.
// Services contain the core retrieval pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external service dependencies of their own;
// everything that does I/O is injected through a driven port.
package services
