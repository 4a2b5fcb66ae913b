/*
Package lifecycle tracks which business-logic containers are attached to which
screen and tells them when that screen enters, exits or is destroyed.

Each screen key moves through its own state machine:

	Unregistered -> Active (OnEnter) <-> Inactive (OnExit) -> Destroyed (OnDestroy)

The Manager is safe for concurrent use. Every registry mutation is serialized
through one mutex, and callbacks run after the lock is released on a snapshot
of the affected lifecycles, so a callback may register or unregister freely.

Lifecycle values are keyed by identity: implementations must be comparable,
and in practice are pointers.
*/
package lifecycle
