/*
Package escrow implements a two party escrow.

A maker locks a deposit of one asset in a vault and names the amount of
another asset it wants in return. The escrow is then either refunded to the
maker or taken by a counterparty that pays the requested amount and
receives the whole vault balance.

Neither the escrow record nor the vault is owned by a private key. Both live
at program derived addresses:

	escrow = derive("escrow", maker, seed as 8 bytes little endian)
	vault  = derive("vault", escrow, offered ticker)

computed with the program id stored in the "escrow" configuration. The bump
of each derivation is stored at creation and every later operation re-derives
both addresses from the stored values instead of trusting the client.

Make, Refund and Take run a fixed sequence of checks with early failure:

	verifySigner
	verifyAddressDerivation
	verifyVaultOwner

and then move the funds through the cash extension. All state changes of
one message are applied together or not at all.
*/
package escrow
