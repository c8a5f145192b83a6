package rule

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWidget struct {
	name   string
	parent *fakeWidget
}

func (w *fakeWidget) Parent() Widget {
	if w.parent == nil {
		return nil
	}
	return w.parent
}

func (w *fakeWidget) TypeName() string { return w.name }

func (w *fakeWidget) Background() (color.NRGBA, bool) { return color.NRGBA{}, false }

func box(mutate func(r *Rule)) *Rule {
	r := &Rule{Function: FunctionBox, FunctionName: "BOX"}
	if mutate != nil {
		mutate(r)
	}
	return r
}

func TestLookupFirstMatchWins(t *testing.T) {
	t.Parallel()

	r1 := box(func(r *Rule) { r.State = StateSelected })
	r2 := box(func(r *Rule) { r.Shadow = ShadowIn; r.Orientation = OrientationHorizontal })

	db := NewDatabase(nil, nil)
	db.Append(r1, r2)

	got, ok := db.Lookup(Query{Function: FunctionBox, State: StateSelected, Shadow: ShadowIn, Orientation: OrientationHorizontal})
	require.True(t, ok)
	assert.Same(t, r1, got)

	scores := db.Explain(Query{Function: FunctionBox, State: StateSelected, Shadow: ShadowIn, Orientation: OrientationHorizontal})
	require.Len(t, scores, 2)
	assert.Equal(t, 1, scores[0].Score)
	assert.Equal(t, 2, scores[1].Score)
}

func TestLookupRejectsConflictingAxes(t *testing.T) {
	t.Parallel()

	selected := box(func(r *Rule) { r.State = StateSelected })
	fallback := box(nil)

	db := NewDatabase(nil, nil)
	db.Append(selected, fallback)

	got, ok := db.Lookup(Query{Function: FunctionBox, State: StateNormal})
	require.True(t, ok)
	assert.Same(t, fallback, got)

	_, ok = db.Lookup(Query{Function: FunctionFlatBox})
	assert.False(t, ok)
}

func TestWildcardQueryAxes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		rule   *Rule
		query  Query
		wantOK bool
	}{
		{
			name:   "unset query state matches any rule state",
			rule:   box(func(r *Rule) { r.State = StatePrelight }),
			query:  Query{Function: FunctionBox},
			wantOK: true,
		},
		{
			name:   "gap side must agree",
			rule:   &Rule{Function: FunctionBoxGap, GapSide: SideTop},
			query:  Query{Function: FunctionBoxGap, GapSide: SideLeft},
			wantOK: false,
		},
		{
			name:   "arrow direction agrees",
			rule:   &Rule{Function: FunctionArrow, ArrowDirection: ArrowDown},
			query:  Query{Function: FunctionArrow, ArrowDirection: ArrowDown},
			wantOK: true,
		},
		{
			name:   "unknown function never matches",
			rule:   &Rule{Function: FunctionUnknown, FunctionName: "WIGGLE"},
			query:  Query{Function: FunctionUnknown},
			wantOK: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db := NewDatabase(nil, nil)
			db.Append(tc.rule)
			_, ok := db.Lookup(tc.query)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestDetailComparesByAtom(t *testing.T) {
	t.Parallel()

	atoms := NewInterner()
	button := box(func(r *Rule) { r.Detail = atoms.Intern("button") })
	plain := box(nil)

	db := NewDatabase(atoms, nil)
	db.Append(button, plain)

	got, ok := db.Lookup(Query{Function: FunctionBox, Detail: "button"})
	require.True(t, ok)
	assert.Same(t, button, got)

	got, ok = db.Lookup(Query{Function: FunctionBox, Detail: "never-interned"})
	require.True(t, ok)
	assert.Same(t, plain, got)

	got, ok = db.Lookup(Query{Function: FunctionBox})
	require.True(t, ok)
	assert.Same(t, button, got, "an empty query detail is a wildcard")
}

func TestParentTypesUseWidgetAncestry(t *testing.T) {
	t.Parallel()

	atoms := NewInterner()
	inToolbar := box(func(r *Rule) { r.ParentTypes = []Atom{atoms.Intern("GtkToolbar")} })
	plain := box(nil)

	db := NewDatabase(atoms, nil)
	db.Append(inToolbar, plain)

	toolbar := &fakeWidget{name: "GtkToolbar"}
	window := &fakeWidget{name: "GtkWindow"}
	buttonInToolbar := &fakeWidget{name: "GtkButton", parent: &fakeWidget{name: "GtkHBox", parent: toolbar}}
	buttonInWindow := &fakeWidget{name: "GtkButton", parent: window}

	got, _ := db.Lookup(Query{Function: FunctionBox, Widget: buttonInToolbar})
	assert.Same(t, inToolbar, got)

	got, _ = db.Lookup(Query{Function: FunctionBox, Widget: buttonInWindow})
	assert.Same(t, plain, got)

	got, _ = db.Lookup(Query{Function: FunctionBox})
	assert.Same(t, inToolbar, got)
}

func TestMergePrependsChildRules(t *testing.T) {
	t.Parallel()

	atoms := NewInterner()
	parent := NewDatabase(atoms, nil)
	p1, p2 := box(nil), box(func(r *Rule) { r.State = StateActive })
	parent.Append(p1, p2)

	child := NewDatabase(atoms, nil)
	c1 := box(func(r *Rule) { r.State = StateNormal })
	child.Append(c1)

	merged := Merge(child, parent)
	require.Equal(t, []*Rule{c1, p1, p2}, merged.Rules())
	assert.Same(t, child.Images(), merged.Images())
	assert.Equal(t, 1, child.Len(), "inputs are not modified")

	got, _ := merged.Lookup(Query{Function: FunctionBox, State: StateActive})
	assert.Same(t, p1, got)

	assert.Equal(t, 2, Merge(nil, parent).Len())
	assert.Equal(t, 1, Merge(child, nil).Len())
	assert.Equal(t, 0, Merge(nil, nil).Len())
}

func TestNilDatabaseLookup(t *testing.T) {
	t.Parallel()

	var db *Database
	_, ok := db.Lookup(Query{Function: FunctionBox})
	assert.False(t, ok)
	assert.Equal(t, 0, db.Len())
}

func TestInterner(t *testing.T) {
	t.Parallel()

	in := NewInterner()
	a := in.Intern("button")
	b := in.Intern("button")
	c := in.Intern("entry")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, NoAtom, in.Intern(""))
	assert.Equal(t, "entry", in.String(c))
	assert.Equal(t, 2, in.Len())

	_, ok := in.Lookup("missing")
	assert.False(t, ok)
}

func TestEnumParsing(t *testing.T) {
	t.Parallel()

	f, ok := ParseFunction("flat_box")
	require.True(t, ok)
	assert.Equal(t, FunctionFlatBox, f)
	assert.Equal(t, "FLAT_BOX", f.String())

	_, ok = ParseFunction("wiggle")
	assert.False(t, ok)

	s, ok := ParseState("Selected")
	require.True(t, ok)
	assert.Equal(t, StateSelected, s)
	assert.Equal(t, "*", StateUnset.String())

	side, ok := ParseSide("left")
	require.True(t, ok)
	assert.Equal(t, SideLeft, side)

	arrow, ok := ParseArrow("UP")
	require.True(t, ok)
	assert.Equal(t, ArrowUp, arrow)

	assert.True(t, FunctionBoxGap.IsGap())
	assert.False(t, FunctionExtension.IsGap())
	assert.Len(t, Functions(), int(FunctionLayout))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	in := NewInterner()
	r := &Rule{
		Function:     FunctionBox,
		FunctionName: "BOX",
		Detail:       in.Intern("button"),
		State:        StatePrelight,
		ParentTypes:  []Atom{in.Intern("GtkToolbar")},
	}
	assert.Equal(t, `function=BOX detail="button" state=PRELIGHT parent_type={GtkToolbar}`, r.Describe(in))
}
