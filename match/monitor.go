package match

import "github.com/veridoc/clausematch/core"

// MatchMonitor provides hooks to observe the matching process.
// Implement this interface to track intermediate steps during a match request.
type MatchMonitor interface {
	Start(query string, clauseCount int)
	AfterAnalysis(analysis *core.QueryAnalysis)
	QueryEmbedded(degraded bool)
	ClauseSkipped(index int, err error)
	ClauseScored(index int, signals core.SignalScores, score float64)
	ClauseDropped(index int, score float64)
	Finish(response *core.MatchResponse)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                           {}
func (n *noopMonitor) AfterAnalysis(_ *core.QueryAnalysis)             {}
func (n *noopMonitor) QueryEmbedded(_ bool)                            {}
func (n *noopMonitor) ClauseSkipped(_ int, _ error)                    {}
func (n *noopMonitor) ClauseScored(_ int, _ core.SignalScores, _ float64) {}
func (n *noopMonitor) ClauseDropped(_ int, _ float64)                  {}
func (n *noopMonitor) Finish(_ *core.MatchResponse)                    {}
