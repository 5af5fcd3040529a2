// Package testsupport provides shared helpers for package tests: temp-dir
// seeded configurations and pre-opened stores.
package testsupport
