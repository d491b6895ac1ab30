// Package ingestion parses CSV log files and coordinates corpus
// replacement: parsed records replace the stored corpus, and the semantic
// index is rebuilt from what the store then holds.
//
// Individual malformed rows are skipped and counted; only reader-level
// failures (broken stream, malformed CSV framing) abort an upload.
package ingestion
