// Package testsupport holds helpers shared by package tests: temp-dir
// configs, stub binaries on PATH, and scratch files.
package testsupport
