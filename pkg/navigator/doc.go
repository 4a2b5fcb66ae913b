/*
Package navigator composes navigation state with lifecycle dispatch.

Two facades are provided:

  - Stack: a flat back stack (navigate, back, replace, clear all).
  - Tree: a navtree root with scope-aware routing, tabs and panes.

Every structural operation runs as one logical step: the state is mutated, a
single snapshot is published to subscribers, and then the lifecycle manager is
told which screens exited, which were destroyed and which one entered.
Intermediate states are never published.

Both facades expect a single writer (the navigation owner, typically the UI
goroutine). Subscriptions and lifecycle registration may come from any
goroutine.
*/
package navigator
