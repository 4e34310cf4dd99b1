/*
Package ports defines the driven ports (interfaces) for the Uliza menu
engine.

These interfaces decouple the state machine core from external
implementations, allowing sessions to be persisted in Redis, memory or
any other backend, and notifications to reach any SMS provider.

# Key Interfaces

  - SessionStore: persists and loads dialog Sessions with atomic
    conditional writes and expiry sweeping.
  - Notifier: the outbound SMS/notification side-channel.

The package also exports RunSessionStoreContract, a reusable test suite
that every SessionStore implementation must pass.
*/
package ports
