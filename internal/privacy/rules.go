package privacy

import "github.com/DNAi-inc/DNUDS/internal/format"

// Rule binds one mask to one column.
type Rule struct {
	Column string
	Mask   *Mask
}

// NewRule validates its mask kind/params via NewMask.
func NewRule(column string, kind Kind, params map[string]string) (Rule, error) {
	m, err := NewMask(kind, params)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Column: column, Mask: m}, nil
}

// Apply applies rules in order to a shallow copy of row; columns not named
// by any rule are left untouched, and a rule naming an absent column is a
// no-op. The source row is never mutated.
func Apply(row format.Row, rules []Rule) format.Row {
	if len(rules) == 0 {
		return row
	}
	out := row.Clone()
	for _, r := range rules {
		if _, ok := out.Values[r.Column]; !ok {
			continue
		}
		out.Values[r.Column] = r.Mask.Apply(out.Values[r.Column])
	}
	return out
}
