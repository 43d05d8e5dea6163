package domain

import "strings"

// Predicate is a composable filter over events. It is built per request and
// never persisted. Repositories translate it to their query language; Matches
// evaluates it in memory.
type Predicate interface {
	Matches(e *Event) bool
	predicate()
}

// MatchAll matches every event.
type MatchAll struct{}

// MatchNone matches no event. It is what an unresolvable category filter becomes.
type MatchNone struct{}

// TitleContains matches events whose title contains Text, ignoring case.
type TitleContains struct {
	Text string
}

// CategoryEquals matches events referencing CategoryID.
type CategoryEquals struct {
	CategoryID string
}

// OrganizerEquals matches events organized by OrganizerID.
type OrganizerEquals struct {
	OrganizerID string
}

// IDNotEquals matches every event except ID.
type IDNotEquals struct {
	ID string
}

// And matches events matching every operand. An empty And matches everything.
type And struct {
	Operands []Predicate
}

func (MatchAll) predicate()        {}
func (MatchNone) predicate()       {}
func (TitleContains) predicate()   {}
func (CategoryEquals) predicate()  {}
func (OrganizerEquals) predicate() {}
func (IDNotEquals) predicate()     {}
func (And) predicate()             {}

func (MatchAll) Matches(*Event) bool  { return true }
func (MatchNone) Matches(*Event) bool { return false }

func (p TitleContains) Matches(e *Event) bool {
	return strings.Contains(strings.ToLower(e.Title), strings.ToLower(p.Text))
}

func (p CategoryEquals) Matches(e *Event) bool  { return e.CategoryID == p.CategoryID }
func (p OrganizerEquals) Matches(e *Event) bool { return e.OrganizerID == p.OrganizerID }
func (p IDNotEquals) Matches(e *Event) bool     { return e.ID != p.ID }

func (p And) Matches(e *Event) bool {
	for _, op := range p.Operands {
		if !op.Matches(e) {
			return false
		}
	}
	return true
}

// AllOf combines preds into a single predicate. MatchAll operands are dropped,
// nested Ands are flattened, and any MatchNone operand makes the result MatchNone.
func AllOf(preds ...Predicate) Predicate {
	var ops []Predicate
	for _, p := range preds {
		switch p := p.(type) {
		case nil, MatchAll:
			continue
		case MatchNone:
			return MatchNone{}
		case And:
			inner := AllOf(p.Operands...)
			switch inner := inner.(type) {
			case MatchAll:
			case MatchNone:
				return MatchNone{}
			case And:
				ops = append(ops, inner.Operands...)
			default:
				ops = append(ops, inner)
			}
		default:
			ops = append(ops, p)
		}
	}
	switch len(ops) {
	case 0:
		return MatchAll{}
	case 1:
		return ops[0]
	}
	return And{Operands: ops}
}
