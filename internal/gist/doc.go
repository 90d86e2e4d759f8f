// Package gist fetches externally hosted code snippets for pre-loading into
// the playground. Metadata responses are cached per gist id for a short,
// fixed window to stay inside the remote API's rate limits; files the API
// truncated for size are completed through an uncached raw-content fetch.
// The files object is decoded with a token stream because file selection
// depends on the API's own field order, which Go maps would not preserve.
package gist
