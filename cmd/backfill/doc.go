// Command backfill re-ingests stored originals that are missing from the
// metadata catalog.
//
// It lists the object store bucket under the configured prefix, drops every
// key the catalog already knows, and runs the regular ingestion pipeline
// over the remainder, reading bytes from the object store instead of the
// local filesystem. Thumbnails, catalog rows, and embeddings are rebuilt
// for each backfilled object.
//
// Only images are backfilled; video frame extraction needs a local file.
//
// Usage:
//
//	backfill
//
// Configuration comes from the same environment variables as the server;
// see the startup package. SIGINT or SIGTERM stops the run at the next
// batch boundary.
package main
