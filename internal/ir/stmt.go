package ir

import (
	"tinygo.org/x/go-llvm"

	"github.com/lucidlang/lucidc/internal/ast"
)

// lowerBlock lowers every statement of body in order and reports
// whether the block ended with a terminator (a return on every path),
// per spec.md §4.4's statement-ordering and unreachable-code rule.
func (lw *Lowerer) lowerBlock(fc *funcCtx, body *ast.CompoundStmt) (bool, error) {
	for _, stmt := range body.Statements {
		terminated, err := lw.lowerStmt(fc, stmt)
		if err != nil {
			return false, err
		}
		if terminated {
			// sema guarantees no statement follows a terminating one in a
			// well-typed program; stop emitting regardless.
			return true, nil
		}
	}
	return false, nil
}

func (lw *Lowerer) lowerStmt(fc *funcCtx, stmt ast.Stmt) (bool, error) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		return false, lw.lowerDecl(fc, s.Decl)
	case *ast.ExprStmt:
		_, err := lw.lowerExpr(fc, s.Expr)
		return false, err
	case *ast.ReturnStmt:
		return true, lw.lowerReturn(fc, s)
	case *ast.WhileStmt:
		return false, lw.lowerWhile(fc, s)
	case *ast.ConditionalStmt:
		return lw.lowerConditional(fc, s)
	default:
		return false, unhandled(stmt, "statement", stmt)
	}
}

func (lw *Lowerer) lowerReturn(fc *funcCtx, s *ast.ReturnStmt) error {
	if s.Value == nil {
		lw.builder.CreateRetVoid()
		return nil
	}
	v, err := lw.lowerExpr(fc, s.Value)
	if err != nil {
		return err
	}
	lw.builder.CreateRet(v)
	return nil
}

// lowerDecl allocates storage for a let/var/uninitialized-var at the
// builder's current insert point (the current block, not necessarily
// the entry block) and stores its initializer, if any.
func (lw *Lowerer) lowerDecl(fc *funcCtx, decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.LetDecl:
		alloca := lw.builder.CreateAlloca(lw.lowerType(d.ResolvedTyp), d.Name)
		fc.locals[d] = alloca
		return lw.lowerInit(fc, alloca, d.Init, d.ResolvedTyp)
	case *ast.VarDecl:
		alloca := lw.builder.CreateAlloca(lw.lowerType(d.ResolvedTyp), d.Name)
		fc.locals[d] = alloca
		return lw.lowerInit(fc, alloca, d.Init, d.ResolvedTyp)
	case *ast.UninitializedVarDecl:
		alloca := lw.builder.CreateAlloca(lw.lowerType(d.ResolvedTyp), d.Name)
		fc.locals[d] = alloca
		return nil
	default:
		return unhandled(decl, "declaration", decl)
	}
}

// lowerConditional implements spec.md §4.4's if_exit algorithm: one
// condition/then pair of blocks per clause, all of them branching to a
// shared if_exit block unless their body already terminates. If every
// clause terminates (and the chain is exhaustive, i.e. ends in a plain
// else), if_exit gains no predecessors and is erased; lowerConditional
// then reports the whole statement as terminating.
func (lw *Lowerer) lowerConditional(fc *funcCtx, s *ast.ConditionalStmt) (bool, error) {
	ifExit := llvm.AddBasicBlock(fc.fn, "if_exit")
	exitPreds := 0
	exhaustive := s.Clauses[len(s.Clauses)-1].Cond == nil

	for i, clause := range s.Clauses {
		isLast := i == len(s.Clauses)-1

		if clause.Cond != nil {
			cond, err := lw.lowerExpr(fc, clause.Cond)
			if err != nil {
				return false, err
			}
			thenBB := llvm.AddBasicBlock(fc.fn, "if_then")
			var elseBB llvm.BasicBlock
			if isLast {
				elseBB = ifExit
				exitPreds++
			} else {
				elseBB = llvm.AddBasicBlock(fc.fn, "if_next")
			}
			lw.builder.CreateCondBr(cond, thenBB, elseBB)

			lw.builder.SetInsertPointAtEnd(thenBB)
			terminated, err := lw.lowerBlock(fc, clause.Body)
			if err != nil {
				return false, err
			}
			if !terminated {
				lw.builder.CreateBr(ifExit)
				exitPreds++
			}

			if !isLast {
				lw.builder.SetInsertPointAtEnd(elseBB)
			}
		} else {
			// Trailing else: falls straight into its own body on the
			// current insert point (the previous clause's elseBB).
			terminated, err := lw.lowerBlock(fc, clause.Body)
			if err != nil {
				return false, err
			}
			if !terminated {
				lw.builder.CreateBr(ifExit)
				exitPreds++
			}
		}
	}

	if exitPreds == 0 {
		ifExit.EraseFromParent()
		return exhaustive, nil
	}
	lw.builder.SetInsertPointAtEnd(ifExit)
	return false, nil
}

// lowerWhile implements spec.md §4.4's loop_cond / loop_body_entry /
// loop_exit three-block algorithm.
func (lw *Lowerer) lowerWhile(fc *funcCtx, s *ast.WhileStmt) error {
	loopCond := llvm.AddBasicBlock(fc.fn, "loop_cond")
	loopBody := llvm.AddBasicBlock(fc.fn, "loop_body_entry")
	loopExit := llvm.AddBasicBlock(fc.fn, "loop_exit")

	lw.builder.CreateBr(loopCond)

	lw.builder.SetInsertPointAtEnd(loopCond)
	cond, err := lw.lowerExpr(fc, s.Cond)
	if err != nil {
		return err
	}
	lw.builder.CreateCondBr(cond, loopBody, loopExit)

	lw.builder.SetInsertPointAtEnd(loopBody)
	terminated, err := lw.lowerBlock(fc, s.Body)
	if err != nil {
		return err
	}
	if !terminated {
		lw.builder.CreateBr(loopCond)
	}

	lw.builder.SetInsertPointAtEnd(loopExit)
	return nil
}
