// Package integration provides end-to-end tests for the plugin-index workflow.
// These tests run the CLI against real git repositories on disk and a shell
// probe standing in for the host runtime.
package integration
