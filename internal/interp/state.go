package interp

import (
	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/types"
)

// NodeState is the per-execution record of one node between its
// beforeExecute and afterExecute. It exists only while the node is active,
// so one syntax tree can be run by several contexts, or recursively by
// nested frames of one context, without interference.
type NodeState struct {
	complete  bool
	announced bool // current child statement already reported to the tracer

	phase int
	index int // child cursor
	sub   int // second cursor (switch clause bodies)
	dflt  int // switch default clause index plus one, zero if none

	acc  types.Value   // running value
	vals []types.Value // collected child values
	res  result        // value computed so far by a reference chain
	out  result        // value published at afterExecute

	this types.Value   // receiver for a pending call
	base types.Value   // value a dotted continuation starts from
	obj  *types.Object // object under construction or iteration
	keys []string      // for-in key snapshot

	hasBase bool
	ctor    bool // constructor target: stop before the final call

	scope       bool // pushed a scope at beforeExecute
	savedLoop   bool
	savedSwitch bool

	call *callState
}

// Phase returns the node's current phase.
func (s *NodeState) Phase() int { return s.phase }

// Complete reports whether the node finished normally and awaits harvest.
func (s *NodeState) Complete() bool { return s.complete }

// callState tracks one stepped invocation of a script function.
type callState struct {
	fn    *types.Object
	frame *frame
	st    NodeState // bookkeeping for driving the body
}

type stateStore map[ast.ID]*NodeState
