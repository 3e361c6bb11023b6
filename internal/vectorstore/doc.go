// Package vectorstore is the HTTP client for the embedding vector store.
//
// Vectors are keyed by the numeric ids the metadata store generated for their
// records, so the catalog upsert must complete before vectors are written.
package vectorstore
