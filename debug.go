package dispatchviz

import (
	"fmt"
	"os"
	"time"
)

// FrameStats holds per-frame timing and draw-call metrics. Reported to the
// OnFrameStats callback every frame and printed to stderr in debug mode.
type FrameStats struct {
	TraverseTime  time.Duration
	SubmitTime    time.Duration
	CommandCount  int
	MeshCount     int
	TextCount     int
	DrawCallCount int
}

// Total returns the summed frame time.
func (s FrameStats) Total() time.Duration {
	return s.TraverseTime + s.SubmitTime
}

// debugLog prints timing and draw-call stats to stderr.
func (s *Scene) debugLog(stats FrameStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[dispatchviz] traverse: %v | submit: %v | total: %v\n",
		stats.TraverseTime, stats.SubmitTime, stats.Total())
	_, _ = fmt.Fprintf(os.Stderr,
		"[dispatchviz] commands: %d (mesh %d, text %d) | draw calls: %d\n",
		stats.CommandCount, stats.MeshCount, stats.TextCount, stats.DrawCallCount)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Callers skip this entirely outside debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("dispatchviz debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[dispatchviz] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[dispatchviz] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

// collectStats counts commands by type. Every command is one draw call.
func collectStats(commands []RenderCommand, stats *FrameStats) {
	stats.CommandCount = len(commands)
	stats.DrawCallCount = len(commands)
	for i := range commands {
		switch commands[i].Type {
		case CommandMesh:
			stats.MeshCount++
		case CommandText:
			stats.TextCount++
		}
	}
}
