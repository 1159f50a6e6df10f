// Package commands contains the write operations of the order/dispatch
// pipeline. Every command follows the same shape: a constructor-guarded
// command value, a handler holding its collaborators, and a Handle method
// that validates, opens a unit of work, applies the domain rules, enqueues
// the resulting events and commits. Events only reach the broker after the
// commit succeeded.
package commands
