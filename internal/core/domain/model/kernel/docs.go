// Package kernel provides shared domain primitives for the lab console.
//
// The package includes:
//   - UUID: an immutable identifier for review workspaces with validation,
//     comparison and text encoding support
//
// Lab orders and their tests keep the integer identifiers assigned by the lab
// backend; UUID is used only for identities the console creates itself.
package kernel
