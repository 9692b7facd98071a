package types

import "github.com/PeterGriffinSr/Vex/internal/ast"

// Session checks one REPL line at a time while keeping the bindings of
// earlier lines visible to later ones. The environment only advances
// when a line checks cleanly; a failed line leaves it untouched.
type Session struct {
	checker *Checker
	env     *Env
}

// NewSession creates a session around c.
func NewSession(c *Checker) *Session {
	return &Session{checker: c}
}

// Check validates one line's tree under the session environment and,
// on success, commits any val bindings the line introduced.
func (s *Session) Check(root *ast.Node) (*Type, error) {
	if root == nil {
		return nil, errf(Unsupported, "Nothing to check")
	}
	if root.Kind != ast.Block {
		return s.checker.checkExpr(root, s.env)
	}
	if len(root.Kids) == 0 {
		return nil, errf(Unsupported, "Empty block has no type")
	}

	env := s.env
	var last *Type
	for _, stmt := range root.Kids {
		t, err := s.checker.checkExpr(stmt, env)
		if err != nil {
			return nil, err
		}
		last = t

		if stmt.Kind == ast.VarDecl {
			binding := t
			if stmt.Annot != "" {
				if binding, err = s.checker.ParseAnnotation(stmt.Annot); err != nil {
					return nil, err
				}
			}
			env = s.checker.bind(env, stmt.Name, binding)
		}
	}

	s.env = env
	return last, nil
}
