// Package errors provides the structured error type used across providerkit.
//
// Every failure surfaced by the coordinator, the registry or the analytics
// manager is an *AppError carrying a machine-readable ErrorCode, a message,
// a retryable flag and optional details. Standard library errors.Is/As work
// through Unwrap, and HasCode matches a code anywhere in a wrapped chain.
package errors
