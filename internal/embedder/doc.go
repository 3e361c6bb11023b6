// Package embedder is the HTTP client for the external content-embedding
// service (a CLIP-style model server).
//
// Images are sent as multipart thumbnail bytes, text as JSON; both return a
// fixed-length float vector used for semantic search over the vector store.
package embedder
