/*
Package session persists navigation state per session.

Manager serializes access to each session ID with a reference-counted local
lock and, when configured, a distributed lock so replicas sharing a Redis
backend never interleave writes. On top of the raw Save/Load it offers
Checkpoint and Resume, which move a navigator.Stack to and from its stored
snapshot.
*/
package session
