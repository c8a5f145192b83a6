package components

import (
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
)

// RuleEntry represents a single rule for rendering.
type RuleEntry struct {
	Index   int
	Keys    string
	Image   string
	Present bool
}

// RuleList renders the rules of a database in lookup order.
type RuleList struct {
	entries []RuleEntry
}

// NewRuleList constructs a rule list component.
func NewRuleList(db *rule.Database) RuleList {
	if db == nil {
		return RuleList{}
	}
	rules := db.Rules()
	entries := make([]RuleEntry, 0, len(rules))
	for i, r := range rules {
		entries = append(entries, RuleEntry{
			Index:   i,
			Keys:    r.Describe(db.Atoms()),
			Image:   r.Image.Source,
			Present: r.Image.Present(),
		})
	}
	return RuleList{entries: entries}
}

// Entries returns the ordered rule entries.
func (l RuleList) Entries() []RuleEntry {
	clone := make([]RuleEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
