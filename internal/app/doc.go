// Package app contains the core application logic: configuration, the
// compile and watch use-cases and the health and metrics server. It is
// decoupled from any specific entrypoint like a CLI.
package app
