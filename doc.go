/*
Package multiwallet defines the common interfaces that tie the
subpackages of a deterministic multi-owner wallet together, as well as
implementations of some of the simpler components (when interfaces
would be too much overhead).

The root package carries no business logic. It declares the contracts
for storage (KVStore and friends), serialization (Persistent),
transaction routing (Msg, Tx, Handler) and the per-call context
helpers. The authorization core itself lives in x/admin.
*/
package multiwallet
