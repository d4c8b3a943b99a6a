/*
Package admin implements the authorization core of a multi owner wallet.

A fixed but mutable set of owners must jointly approve sensitive state
changes before they take effect: replacing an owner, adding or removing
owners, altering signature count requirements and altering per token
spending thresholds.

Every administrative operation is correlated by a deterministic
identifier derived from the operation kind and its defining parameters.
Confirmations for the same identifier, possibly spread over many
transactions, accumulate on a single open attempt until the admin
quorum snapshotted at proposal time is reached. Only then is the one
concrete state mutation applied, exactly once.

The owner set, the pending attempt records and the configuration are
mutated only through the handlers of this package. The outer dispatch
contract that routes calls into this core, fund movement and token
issuance are out of scope.
*/
package admin
