// Package ast defines the abstract syntax tree for scripts.
//
// The tree is immutable once parsed. Execution state never lives in the
// nodes; evaluators key their per-node progress by the node's ID, which is
// unique within one tree and assigned by the IDAllocator threaded through
// the parser.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Expr (interface) - expressions that produce values
//	│   ├── Literal, ArrayLit, ObjectLit, FuncLit - literals
//	│   ├── IdentExpr - name, index, call and member chains
//	│   ├── ListExpr - flat left-to-right binary operator chains
//	│   ├── BinaryExpr, AssignExpr - two-operand forms
//	│   ├── CondExpr, UnaryExpr, PostfixExpr, NewExpr - other operators
//	│   └── ParenExpr, SeqExpr, VarDecl - grouping and declarations
//	├── Stmt (interface) - statements that perform actions
//	│   ├── ExprStmt, VarStmt, FuncDecl, EmptyStmt - basic
//	│   ├── IfStmt, SwitchStmt, BlockStmt - branching and grouping
//	│   ├── WhileStmt, DoWhileStmt, ForStmt, ForInStmt - loops
//	│   └── BreakStmt, ContinueStmt, ReturnStmt - control
//	└── Program, CaseClause - structure
//
// The set is closed: the marker methods are unexported, so evaluators can
// switch exhaustively over the concrete types.
package ast

import "github.com/kolkov/ustep/internal/token"

// ID identifies a node within one tree. The zero ID is never assigned.
type ID uint32

// IDAllocator hands out node IDs in increasing order. Each parse uses its
// own allocator; a watch expression parsed against a running script shares
// the script's allocator so the IDs never collide.
type IDAllocator struct {
	last ID
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() ID {
	a.last++
	return a.last
}

// Last returns the most recently allocated ID.
func (a *IDAllocator) Last() ID {
	return a.last
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the first character immediately after this node.
	End() token.Position

	// ID returns the node's identity within its tree.
	ID() ID

	// String renders the node in canonical source form.
	String() string
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// BaseNode carries the identity and span shared by every node.
type BaseNode struct {
	NodeID   ID
	StartPos token.Position // Position of first token
	EndPos   token.Position // Position after last token
}

func (b *BaseNode) Pos() token.Position { return b.StartPos }
func (b *BaseNode) End() token.Position { return b.EndPos }
func (b *BaseNode) ID() ID              { return b.NodeID }

// BaseExpr is embedded in concrete expression types.
type BaseExpr struct {
	BaseNode
}

func (b *BaseExpr) exprNode() {}

// BaseStmt is embedded in concrete statement types.
type BaseStmt struct {
	BaseNode
}

func (b *BaseStmt) stmtNode() {}

// IsAssignable reports whether e denotes a location that can be written
// back to: a name, an indexed or dotted member, or a var declaration.
// Chains that end in a call are not assignable.
func IsAssignable(e Expr) bool {
	switch x := e.(type) {
	case *IdentExpr:
		for x.Sub != nil {
			x = x.Sub
		}
		return !x.Call
	case *VarDecl:
		return true
	case *ParenExpr:
		return IsAssignable(x.X)
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Constructor helpers
// -----------------------------------------------------------------------------

// MakeBaseExpr creates a BaseExpr with the given identity and positions.
func MakeBaseExpr(id ID, start, end token.Position) BaseExpr {
	return BaseExpr{BaseNode{NodeID: id, StartPos: start, EndPos: end}}
}

// MakeBaseStmt creates a BaseStmt with the given identity and positions.
func MakeBaseStmt(id ID, start, end token.Position) BaseStmt {
	return BaseStmt{BaseNode{NodeID: id, StartPos: start, EndPos: end}}
}
