// Package laborder provides the LabOrder aggregate reviewed in the console.
//
// The package includes:
//   - LabOrder: the aggregate root holding patient, doctor, billing data and the ordered tests
//   - OrderTest: one requested test with its recorded result
//   - Status and PaymentStatus: the order's lifecycle and billing states
//   - Result and ResultFlag: the mutable result fields of a test
//
// Key business rules:
//   - The order of OrderTests never changes for the lifetime of a loaded order
//   - OrderTest identifiers are unique within an order
//   - Finalizing sets the status to completed from any state; no intermediate
//     transition is enforced
//   - Result values are free text; the console performs no clinical validation
package laborder
