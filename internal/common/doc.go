// Package common provides shared interfaces used across the pidlock packages.
//
// It exists so that the lock package can accept an optional diagnostic
// Logger without depending on the logger package's concrete implementation.
// The package deliberately has no dependencies on other internal packages.
package common
