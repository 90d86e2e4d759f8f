// Package sandbox maintains the immutable set of published playground bundle
// versions. The registry is built exactly once at startup by listing the
// bucket's top-level prefixes; each version gets a Reader that memoizes every
// (version, path) object for the process lifetime, absence included, because
// published bundles never change.
package sandbox
