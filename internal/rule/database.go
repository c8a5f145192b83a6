package rule

import (
	"github.com/alexisbeaulieu97/pixtheme/internal/imagecache"
)

// Query describes one paint request. Zero-valued axes, an empty Detail and a
// nil Widget are wildcards.
type Query struct {
	Function       Function
	Detail         string
	State          State
	Shadow         Shadow
	Orientation    Orientation
	GapSide        Side
	ArrowDirection Arrow
	Widget         Widget
}

// Candidate pairs a rule with its specificity for a query. Score is -1 for
// rejected rules.
type Candidate struct {
	Rule  *Rule
	Score int
}

// unknownAtom stands for a query detail that was never interned; it differs
// from every rule detail.
const unknownAtom Atom = -1

// Database is an ordered rule list. Order is significant: Lookup returns the
// first rule that is not rejected.
type Database struct {
	rules  []*Rule
	atoms  *Interner
	images *imagecache.Cache
}

// NewDatabase creates an empty database. nil arguments get fresh instances.
func NewDatabase(atoms *Interner, images *imagecache.Cache) *Database {
	if atoms == nil {
		atoms = NewInterner()
	}
	if images == nil {
		images = imagecache.New()
	}
	return &Database{atoms: atoms, images: images}
}

// Append adds rules at the end of the database.
func (db *Database) Append(rules ...*Rule) {
	db.rules = append(db.rules, rules...)
}

// Rules returns the rules in lookup order.
func (db *Database) Rules() []*Rule {
	out := make([]*Rule, len(db.rules))
	copy(out, db.rules)
	return out
}

// Len reports the number of rules.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.rules)
}

// Atoms returns the interner shared by the rules.
func (db *Database) Atoms() *Interner {
	return db.atoms
}

// Images returns the decoded-image cache owned by the database.
func (db *Database) Images() *imagecache.Cache {
	return db.images
}

// Lookup returns the first rule accepted by q. A later rule is never
// consulted once an earlier one matched, however specific it is.
func (db *Database) Lookup(q Query) (*Rule, bool) {
	if db == nil || q.Function == FunctionUnknown {
		return nil, false
	}
	detail := db.resolveDetail(q.Detail)
	for _, r := range db.rules {
		if db.specificity(r, q, detail) >= 0 {
			return r, true
		}
	}
	return nil, false
}

// Explain scores every rule against q in lookup order.
func (db *Database) Explain(q Query) []Candidate {
	if db == nil {
		return nil
	}
	detail := db.resolveDetail(q.Detail)
	out := make([]Candidate, len(db.rules))
	for i, r := range db.rules {
		score := -1
		if q.Function != FunctionUnknown {
			score = db.specificity(r, q, detail)
		}
		out[i] = Candidate{Rule: r, Score: score}
	}
	return out
}

func (db *Database) resolveDetail(detail string) Atom {
	if detail == "" {
		return NoAtom
	}
	if a, ok := db.atoms.Lookup(detail); ok {
		return a
	}
	return unknownAtom
}

// specificity counts the keys of r satisfied by q, or returns -1 when one of
// the keys r specifies conflicts with a concrete query value.
func (db *Database) specificity(r *Rule, q Query, detail Atom) int {
	if r.Function == FunctionUnknown || r.Function != q.Function {
		return -1
	}

	count := 0
	if r.Detail != NoAtom {
		if detail != NoAtom && detail != r.Detail {
			return -1
		}
		count++
	}
	if r.State != StateUnset {
		if q.State != StateUnset && q.State != r.State {
			return -1
		}
		count++
	}
	if r.Shadow != ShadowUnset {
		if q.Shadow != ShadowUnset && q.Shadow != r.Shadow {
			return -1
		}
		count++
	}
	if r.Orientation != OrientationUnset {
		if q.Orientation != OrientationUnset && q.Orientation != r.Orientation {
			return -1
		}
		count++
	}
	if r.GapSide != SideUnset {
		if q.GapSide != SideUnset && q.GapSide != r.GapSide {
			return -1
		}
		count++
	}
	if r.ArrowDirection != ArrowUnset {
		if q.ArrowDirection != ArrowUnset && q.ArrowDirection != r.ArrowDirection {
			return -1
		}
		count++
	}
	if len(r.ParentTypes) > 0 {
		if q.Widget != nil && !db.hasAncestor(q.Widget, r.ParentTypes) {
			return -1
		}
		count++
	}
	return count
}

func (db *Database) hasAncestor(w Widget, types []Atom) bool {
	for p := w.Parent(); p != nil; p = p.Parent() {
		a, ok := db.atoms.Lookup(p.TypeName())
		if !ok {
			continue
		}
		for _, t := range types {
			if t == a {
				return true
			}
		}
	}
	return false
}

// Merge returns a database holding child's rules followed by parent's, each
// in its own order. Both must share an Interner; the result keeps child's
// image cache.
func Merge(child, parent *Database) *Database {
	switch {
	case child == nil && parent == nil:
		return NewDatabase(nil, nil)
	case child == nil:
		child, parent = parent, nil
	}

	merged := &Database{atoms: child.atoms, images: child.images}
	merged.rules = make([]*Rule, 0, child.Len()+parent.Len())
	merged.rules = append(merged.rules, child.rules...)
	if parent != nil {
		merged.rules = append(merged.rules, parent.rules...)
	}
	return merged
}
