/*
Package currency is a registry of the asset types known to the ledger.

Each registered asset is a TokenInfo stored under its ticker. Other
extensions use Require to refuse operations on unregistered assets. New
assets are loaded from the genesis "currencies" section or created by the
issuer named in the on chain configuration.
*/
package currency
