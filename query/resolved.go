package query

import "github.com/poiesic/invoicit/core"

// ResolvedContext is the outcome of resolving invoice-level criteria to
// parent invoice IDs. It distinguishes "no invoice constraint at all" from
// "a constraint that matched these IDs", because a constraint that matched
// zero invoices must short-circuit to an empty result rather than fall back
// to searching everything.
type ResolvedContext struct {
	constrained bool
	ids         []core.ID
}

// Unconstrained returns a context with no invoice constraint.
func Unconstrained() ResolvedContext {
	return ResolvedContext{}
}

// IDSet returns a context constrained to the given invoice IDs. An empty
// slice is a valid, satisfied-by-nothing constraint.
func IDSet(ids []core.ID) ResolvedContext {
	if ids == nil {
		ids = []core.ID{}
	}
	return ResolvedContext{constrained: true, ids: ids}
}

// IsConstrained reports whether an invoice constraint was applied.
func (r ResolvedContext) IsConstrained() bool {
	return r.constrained
}

// IsEmpty reports whether the constraint matched no invoices.
func (r ResolvedContext) IsEmpty() bool {
	return r.constrained && len(r.ids) == 0
}

// IDs returns the matched invoice IDs. Nil when unconstrained.
func (r ResolvedContext) IDs() []core.ID {
	if !r.constrained {
		return nil
	}
	return r.ids
}
