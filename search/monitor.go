package search

import "github.com/poiesic/logseer/core"

// QueryMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during a query.
type QueryMonitor interface {
	Start(query string)
	AfterEncoding(dimensions int)
	Finish(candidates []core.Candidate)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)            {}
func (n *noopMonitor) AfterEncoding(_ int)       {}
func (n *noopMonitor) Finish(_ []core.Candidate) {}
