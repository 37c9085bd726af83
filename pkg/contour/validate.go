package contour

import "fmt"

// Severity indicates whether a validation finding makes a tree unusable or
// is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // tree must not be used
	SeverityWarning                 // suspicious but usable
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     NodeID   // offending node (Root if tree-level)
	Message  string   // human-readable description
	Severity Severity // error or warning
}

func (e ValidationError) Error() string {
	if e.Node == Root {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %d: %s", e.Severity, e.Node, e.Message)
}

// Validate checks the structural invariants of t and returns every finding.
// An empty result means the tree is valid. Validate never mutates t.
func Validate(t *Tree) []ValidationError {
	if t == nil || len(t.Nodes) == 0 {
		return []ValidationError{{Root, "tree has no root", SeverityError}}
	}
	var errs []ValidationError
	errs = append(errs, validateLinks(t)...)
	if HasErrors(errs) {
		// Nesting checks assume well-formed links.
		return errs
	}
	errs = append(errs, validateNesting(t)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateLinks checks that parent and child indices agree and that every
// node is reachable from the root exactly once.
func validateLinks(t *Tree) []ValidationError {
	var errs []ValidationError
	n := len(t.Nodes)
	if t.Nodes[Root].Parent != None {
		errs = append(errs, ValidationError{Root, "root has a parent", SeverityError})
	}
	if len(t.Nodes[Root].Contour) != 0 {
		errs = append(errs, ValidationError{Root, "root carries a contour", SeverityError})
	}

	seen := make([]int, n)
	for i, node := range t.Nodes {
		for _, c := range node.Children {
			if c <= Root || int(c) >= n {
				errs = append(errs, ValidationError{NodeID(i),
					fmt.Sprintf("child index %d out of range", c), SeverityError})
				continue
			}
			seen[c]++
			if t.Nodes[c].Parent != NodeID(i) {
				errs = append(errs, ValidationError{c,
					fmt.Sprintf("parent is %d but listed as a child of %d", t.Nodes[c].Parent, i), SeverityError})
			}
		}
	}
	for i := 1; i < n; i++ {
		if seen[i] != 1 {
			errs = append(errs, ValidationError{NodeID(i),
				fmt.Sprintf("referenced by %d parents, want 1", seen[i]), SeverityError})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	// With one parent each, any node unreachable from the root sits on a cycle.
	reached := 0
	t.Walk(func(NodeID, int) bool { reached++; return true })
	if reached != n-1 {
		errs = append(errs, ValidationError{Root,
			fmt.Sprintf("%d nodes unreachable from root", n-1-reached), SeverityError})
	}
	return errs
}

// validateNesting checks hole alternation, winding and containment.
func validateNesting(t *Tree) []ValidationError {
	var errs []ValidationError
	t.Walk(func(id NodeID, depth int) bool {
		node := t.Nodes[id]
		if wantHole := depth%2 == 1; node.Hole != wantHole {
			errs = append(errs, ValidationError{id,
				fmt.Sprintf("hole flag %v at depth %d", node.Hole, depth), SeverityError})
		}
		if len(node.Contour) < 3 {
			errs = append(errs, ValidationError{id,
				fmt.Sprintf("contour has %d points, need at least 3", len(node.Contour)), SeverityError})
			return true
		}
		if a := node.Contour.Area(); (a > 0) == node.Hole || a == 0 {
			errs = append(errs, ValidationError{id,
				fmt.Sprintf("winding does not match hole=%v (signed area %g)", node.Hole, a), SeverityError})
		}
		if node.Parent != Root && !Encloses(t.Nodes[node.Parent].Contour, node.Contour) {
			errs = append(errs, ValidationError{id, "contour is not inside its parent", SeverityWarning})
		}
		return true
	})
	return errs
}
