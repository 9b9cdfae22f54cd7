// Package testutil holds helpers shared by the package tests: a registry with
// the built-in node types and terse graph builders.
package testutil
