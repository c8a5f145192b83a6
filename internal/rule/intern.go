package rule

import "sync"

// Atom is an interned string. Atoms from the same Interner compare equal
// exactly when their strings are equal. The zero Atom means "no string".
type Atom int32

// NoAtom is the unspecified atom.
const NoAtom Atom = 0

// Interner maps strings to Atoms. It is shared by every database of a theme
// so details and type names compare by id.
type Interner struct {
	mu    sync.RWMutex
	ids   map[string]Atom
	names []string
}

// NewInterner creates an empty arena.
func NewInterner() *Interner {
	return &Interner{
		ids:   make(map[string]Atom),
		names: []string{""},
	}
}

// Intern returns the atom for s, adding it when needed. The empty string
// interns to NoAtom.
func (in *Interner) Intern(s string) Atom {
	if s == "" {
		return NoAtom
	}

	in.mu.RLock()
	a, ok := in.ids[s]
	in.mu.RUnlock()
	if ok {
		return a
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if a, ok := in.ids[s]; ok {
		return a
	}
	a = Atom(len(in.names))
	in.names = append(in.names, s)
	in.ids[s] = a
	return a
}

// Lookup returns the atom for s without adding it.
func (in *Interner) Lookup(s string) (Atom, bool) {
	if s == "" {
		return NoAtom, false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	a, ok := in.ids[s]
	return a, ok
}

// String returns the text of a.
func (in *Interner) String(a Atom) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if a <= 0 || int(a) >= len(in.names) {
		return ""
	}
	return in.names[a]
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names) - 1
}
