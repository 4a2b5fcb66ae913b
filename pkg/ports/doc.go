/*
Package ports defines the driven ports (interfaces) for persisting navigation
state.

These interfaces decouple the navigator from storage backends so a back stack
can be saved and restored by memory, file or Redis adapters.

# Key Interfaces

  - SnapshotStore: persists and loads a StackSnapshot per session.
  - DistributedLocker: coordinates concurrent access to a session across replicas.
*/
package ports
