// Package dummy provides two in-process analytics providers used by the
// demo and tests. ProjectProvider becomes ready some time after
// Initialize; KeyProvider is ready as soon as Initialize returns.
// Both keep the events they receive.
package dummy
