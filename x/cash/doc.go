/*
Package cash keeps the balances of all accounts and provides the asset
transfer primitive used by other extensions.

A wallet is stored under the account address. Wallets that were emptied by a
transfer are removed from the state, so an address holds a wallet if and
only if it holds a positive balance.
*/
package cash
