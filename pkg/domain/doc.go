/*
Package domain holds the core entities of the Uliza menu engine: the
Session (conversation state reconstructed on every gateway request),
the Node and Tree types describing static menu graphs, and the sentinel
errors shared across adapters.

Nothing in this package performs I/O. Trees are read-only after
startup; Sessions are mutated only through the resolver's single
read-modify-write cycle per request.
*/
package domain
