// Package cli implements the scalargrad command-line demo.
//
// # Overview
//
// The CLI builds small computations on a fresh graph and prints the values
// and gradients it finds. It does not train anything: every command runs one
// forward pass and one backward pass.
//
// # Commands
//
//   - grad: the diamond expression (a + b) + c*d
//   - mlp: max-margin loss of an MLP(2, [16, 16, 1]) over a fixed dataset
//   - version: the build version
//
// # Output
//
// Output prints tables (text/tabwriter) by default and indented JSON with
// --json. Data goes to stdout, messages to stderr, so that
//
//	scalargrad mlp --json | jq .accuracy
//
// works as expected.
package cli
