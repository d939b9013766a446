// Package analytics defines the analytics provider interface and a Manager
// that fans events out to every provider a Coordinator retained for the
// running platform.
//
// Concrete backends live in subpackages, for example analytics/dummy.
package analytics
