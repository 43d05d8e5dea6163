package postgres

import (
	"fmt"
	"strings"

	"evently/internal/domain"
)

// likeEscaper escapes LIKE metacharacters so user text is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// compilePredicate renders p as a SQL condition over the events table aliased
// as "e". Placeholders are numbered after the existing args, and the extended
// args slice is returned.
func compilePredicate(p domain.Predicate, args []any) (string, []any, error) {
	switch p := p.(type) {
	case nil, domain.MatchAll:
		return "TRUE", args, nil
	case domain.MatchNone:
		return "FALSE", args, nil
	case domain.TitleContains:
		args = append(args, containsPattern(p.Text))
		return fmt.Sprintf("e.title ILIKE $%d", len(args)), args, nil
	case domain.CategoryEquals:
		args = append(args, p.CategoryID)
		return fmt.Sprintf("e.category_id = $%d", len(args)), args, nil
	case domain.OrganizerEquals:
		args = append(args, p.OrganizerID)
		return fmt.Sprintf("e.organizer_id = $%d", len(args)), args, nil
	case domain.IDNotEquals:
		args = append(args, p.ID)
		return fmt.Sprintf("e.id <> $%d", len(args)), args, nil
	case domain.And:
		if len(p.Operands) == 0 {
			return "TRUE", args, nil
		}
		parts := make([]string, 0, len(p.Operands))
		for _, op := range p.Operands {
			var (
				cond string
				err  error
			)
			cond, args, err = compilePredicate(op, args)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, cond)
		}
		return "(" + strings.Join(parts, " AND ") + ")", args, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate %T", p)
	}
}
