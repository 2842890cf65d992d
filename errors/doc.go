/*
Package errors defines the registered errors of the ledger and the helpers
to wrap them.

Every registered error carries an ABCI code that clients use to tell failures
apart. Generic failures (missing value, invalid amount, unauthorized caller,
...) are declared here. An extension registers its own codes only for
failures no generic error describes, as x/escrow does for address collisions
and invalid vaults.

Wrap an error at the place it is created, using Wrap, Wrapf or the New method
of a registered error. The first wrap records a stack trace, which is printed
with the %+v verb. %v prints the message followed by the place of creation,
%s prints the message only.

Field attaches an error to the name of an invalid field, so that message
validation can report all problems at once (see Append and FieldErrors).
*/
package errors
