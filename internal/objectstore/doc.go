// Package objectstore defines the client contract for the remote bucket
// holding versioned sandbox bundles, plus an HTTP implementation speaking the
// S3 REST dialect (list-type=2 listing with a "/" delimiter, plain GET for
// objects). Lookups that the store reports as missing or denied surface as
// ErrNotFound; transport failures surface as errors so callers can tell a
// missing file from a broken upstream.
package objectstore
