/*
Package navkey allocates identity strings for navigation nodes and screens.

Keys are unique for the lifetime of the process among all keys produced by the
same Generator. A human-readable label may prefix the key, but uniqueness is
always carried by a strictly increasing counter suffix.

	key := navkey.Generate("detail") // "detail-7"

The package-level Generator is initialized once at process start. Resetting a
Generator while keys it produced are still alive breaks uniqueness, so the
reset hook is only reachable from this package's tests.
*/
package navkey
