package chat

import "github.com/poiesic/logseer/core"

// ChatMonitor provides hooks to observe each stage of a chat request.
// Implement this interface to track intermediate steps and results.
type ChatMonitor interface {
	Start(query string)
	AfterRetrieval(candidates []core.Candidate)
	Graded(record core.LogRecord, verdict Verdict)
	AfterGrading(survivors []core.LogRecord)
	Finish(result *core.ChatResult)
}

// noopMonitor is a no-op implementation of ChatMonitor
type noopMonitor struct{}

var _ ChatMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterRetrieval(_ []core.Candidate)     {}
func (n *noopMonitor) Graded(_ core.LogRecord, _ Verdict)    {}
func (n *noopMonitor) AfterGrading(_ []core.LogRecord)       {}
func (n *noopMonitor) Finish(_ *core.ChatResult)             {}
