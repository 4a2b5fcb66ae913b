/*
Package domain contains the core navigation models shared by every Waypoint component.

It is kept pure and free of I/O or persistence, following Hexagonal Architecture
principles: stores, codecs and renderers depend on it, never the other way around.

# Key Entities

  - Destination: Application-defined "what to show", identified by a kind tag.
  - Payload: Data carried by a destination, either in memory or in serialized form.
  - Transition: Preferred animation hint attached to a destination or entry.
  - BackStackEntry: One navigation history record, keyed by a unique screen key.
  - StackSnapshot: Serializable picture of a back stack used for state restoration.
*/
package domain
