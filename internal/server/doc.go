// Package server wires the Fiber application that fronts the playground:
// page rendering for the root/sandbox/gist URLs, asset serving for versioned
// bundle files, and the gist proxy endpoint. Handlers receive their
// collaborators (sandbox registry, gist fetcher, anti-forgery token source)
// through AppOptions so tests can substitute fakes; nothing here keeps
// mutable state of its own beyond the per-version template cache.
package server
