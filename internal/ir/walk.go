package ir

// WalkExprs calls visit for every expression reachable from stmts, parents
// before children.
func WalkExprs(stmts []*Stmt, visit func(*Expr)) {
	for _, s := range stmts {
		if s == nil {
			continue
		}
		switch d := s.Data.(type) {
		case AssignData:
			walkExpr(d.Target, visit)
			walkExpr(d.Value, visit)
		case IfData:
			walkExpr(d.Cond, visit)
			WalkExprs(d.Then, visit)
			WalkExprs(d.Else, visit)
		case ReturnData:
			walkExpr(d.Value, visit)
		case ExprStmtData:
			walkExpr(d.Expr, visit)
		}
	}
}

func walkExpr(e *Expr, visit func(*Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch d := e.Data.(type) {
	case AttrData:
		walkExpr(d.X, visit)
	case BinaryData:
		walkExpr(d.X, visit)
		walkExpr(d.Y, visit)
	case IsNoneData:
		walkExpr(d.X, visit)
	case CallData:
		walkExpr(d.Recv, visit)
		for _, a := range d.Args {
			walkExpr(a, visit)
		}
	case FormatData:
		for _, p := range d.Parts {
			walkExpr(p.Value, visit)
		}
	}
}
