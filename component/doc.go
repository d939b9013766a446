// Package component defines the lifecycle contract shared by everything the
// bootstrap package starts and stops: schedulers, provider coordinators and
// any other long-lived piece of a service.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line description for the startup summary
package component
