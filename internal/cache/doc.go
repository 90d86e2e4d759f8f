// Package cache provides the two in-process caches shared by request
// handlers: a lifetime memoization map for immutable sandbox objects and a
// TTL map for gist API responses. Both tolerate concurrent first-access
// races; a duplicate computation for the same key is acceptable and the
// first stored value wins so repeated reads stay consistent.
package cache
