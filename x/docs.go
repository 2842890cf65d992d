/*
Package x contains the standard extensions of the ledger.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in the app package to construct
the application.

Exported message types are prefixed by the package, so follow
standard go naming conventions and avoid stutter. Use eg.
`escrow.MakeMsg` in place of `escrow.MakeEscrowMsg`.
*/
package x
