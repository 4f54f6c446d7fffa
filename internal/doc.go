// Package internal implements the application shell behind package courier:
// the App with its extension registry, the mail extension, configuration
// loading and the HTTP runtime.
//
// Import package courier instead; everything here is re-exported there.
package internal
