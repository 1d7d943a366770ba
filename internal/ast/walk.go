package ast

// Walk traverses an AST in depth-first order.
// For each node, it calls fn(node). If fn returns false,
// the children of that node are not visited.
//
// Example: count the calls in a script
//
//	count := 0
//	ast.Walk(prog, func(n ast.Node) bool {
//	    if id, ok := n.(*ast.IdentExpr); ok && id.Call {
//	        count++
//	    }
//	    return true
//	})
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, fn)

	// Expressions
	case *Literal:
		// no children

	case *ArrayLit:
		walkExprs(n.Elems, fn)

	case *ObjectLit:
		for _, f := range n.Fields {
			Walk(f.Value, fn)
		}

	case *FuncLit:
		Walk(n.Body, fn)

	case *IdentExpr:
		walkExprs(n.Index, fn)
		walkExprs(n.Args, fn)
		if n.Sub != nil {
			Walk(n.Sub, fn)
		}

	case *VarDecl:
		Walk(n.Init, fn)

	case *ListExpr:
		walkExprs(n.Operands, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *AssignExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *CondExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *UnaryExpr:
		Walk(n.X, fn)

	case *PostfixExpr:
		Walk(n.X, fn)

	case *NewExpr:
		Walk(n.Target, fn)

	case *ParenExpr:
		Walk(n.X, fn)

	case *SeqExpr:
		walkExprs(n.Items, fn)

	// Statements
	case *ExprStmt:
		Walk(n.X, fn)

	case *VarStmt:
		for _, d := range n.Decls {
			Walk(d, fn)
		}

	case *FuncDecl:
		Walk(n.Func, fn)

	case *EmptyStmt, *BreakStmt, *ContinueStmt:
		// no children

	case *BlockStmt:
		walkStmts(n.Stmts, fn)

	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *SwitchStmt:
		Walk(n.Tag, fn)
		for _, c := range n.Cases {
			Walk(c, fn)
		}

	case *CaseClause:
		Walk(n.Value, fn)
		walkStmts(n.Body, fn)

	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)

	case *DoWhileStmt:
		Walk(n.Body, fn)
		Walk(n.Cond, fn)

	case *ForStmt:
		Walk(n.Init, fn)
		Walk(n.Cond, fn)
		Walk(n.Post, fn)
		Walk(n.Body, fn)

	case *ForInStmt:
		Walk(n.Key, fn)
		Walk(n.Object, fn)
		Walk(n.Body, fn)

	case *ReturnStmt:
		Walk(n.Value, fn)
	}
}

func walkExprs(list []Expr, fn func(Node) bool) {
	for _, e := range list {
		Walk(e, fn)
	}
}

func walkStmts(list []Stmt, fn func(Node) bool) {
	for _, s := range list {
		Walk(s, fn)
	}
}
