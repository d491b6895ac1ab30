package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// TimestampLayout is the display layout for record timestamps in context
// lines handed to the model, and one of the layouts accepted on ingest.
const TimestampLayout = "2006-01-02 15:04:05"

// Level tokens counted by summary statistics. Levels are otherwise
// free-form; these are conventions, not constraints.
const (
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// LogRecord represents a single uploaded log entry.
// Identity is positional within the indexed corpus: records carry no
// stable key and are never addressed individually after upload.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source,omitempty"`
}

// RetrievalText returns the text embedded for semantic search.
// Source is excluded; it is metadata, not retrieval signal.
func (r LogRecord) RetrievalText() string {
	return r.Level + ": " + r.Message
}

// ContextLine returns the rendering shown to the grading and synthesis
// models: "[timestamp] LEVEL: message".
func (r LogRecord) ContextLine() string {
	return "[" + r.Timestamp.Format(TimestampLayout) + "] " + r.Level + ": " + r.Message
}

// NormalizeLevel trims and upper-cases a level token.
// Blank levels normalize to INFO.
func NormalizeLevel(level string) string {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "" {
		return LevelInfo
	}
	return level
}

// Candidate pairs a retrieved record with its cosine similarity score.
// Candidates live for a single pipeline run.
type Candidate struct {
	Record LogRecord
	Score  float32
}

// ChatResult is the outcome of one question: the synthesized answer and
// the records that survived relevance grading, in chronological order.
type ChatResult struct {
	Answer  string      `json:"answer"`
	Context []LogRecord `json:"context"`
}

// CorpusFingerprint generates a deterministic fingerprint for a record
// sequence using BLAKE2b hashing. Identical corpora in identical order
// produce identical fingerprints.
func CorpusFingerprint(records []LogRecord) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	var ts [8]byte
	for i := range records {
		binary.LittleEndian.PutUint64(ts[:], uint64(records[i].Timestamp.UnixMicro()))
		h.Write(ts[:])
		h.Write([]byte(records[i].Level))
		h.Write([]byte{0})
		h.Write([]byte(records[i].Message))
		h.Write([]byte{0})
		h.Write([]byte(records[i].Source))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
