package verb

import (
	"regexp"
	"strings"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// Selector is one column-selection rule for Select
type Selector interface {
	// names resolves the rule against a table, in table order for pattern
	// rules and in rule order for literal rules
	names(t *table.Table) ([]string, error)
	negated() bool
}

type selector struct {
	negate  bool
	resolve func(t *table.Table) ([]string, error)
}

func (s selector) names(t *table.Table) ([]string, error) { return s.resolve(t) }
func (s selector) negated() bool                          { return s.negate }

// Cols selects columns by literal name. An unmatched name is a
// ColumnNotFound error.
func Cols(names ...string) Selector {
	return selector{resolve: func(t *table.Table) ([]string, error) {
		for _, n := range names {
			if !t.HasColumn(n) {
				return nil, errors.ColumnNotFound(n)
			}
		}
		return append([]string(nil), names...), nil
	}}
}

// ColRange selects the positional span of columns between from and to,
// inclusive, in table order.
func ColRange(from, to string) Selector {
	return selector{resolve: func(t *table.Table) ([]string, error) {
		all := t.Names()
		lo, hi := -1, -1
		for i, n := range all {
			if n == from {
				lo = i
			}
			if n == to {
				hi = i
			}
		}
		if lo < 0 {
			return nil, errors.ColumnNotFound(from)
		}
		if hi < 0 {
			return nil, errors.ColumnNotFound(to)
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return append([]string(nil), all[lo:hi+1]...), nil
	}}
}

// StartsWith selects columns whose name begins with the prefix
func StartsWith(prefix string) Selector {
	return match(func(n string) bool { return strings.HasPrefix(n, prefix) })
}

// EndsWith selects columns whose name ends with the suffix
func EndsWith(suffix string) Selector {
	return match(func(n string) bool { return strings.HasSuffix(n, suffix) })
}

// Contains selects columns whose name contains the substring
func Contains(sub string) Selector {
	return match(func(n string) bool { return strings.Contains(n, sub) })
}

// Matches selects columns whose name matches the regular expression
func Matches(pattern string) Selector {
	return selector{resolve: func(t *table.Table) ([]string, error) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid column pattern")
		}
		var out []string
		for _, n := range t.Names() {
			if re.MatchString(n) {
				out = append(out, n)
			}
		}
		return out, nil
	}}
}

// Everything selects all remaining columns
func Everything() Selector {
	return selector{resolve: func(t *table.Table) ([]string, error) {
		return t.Names(), nil
	}}
}

// Not negates a rule: matched columns are excluded. A leading Not starts
// from the full column set.
func Not(s Selector) Selector {
	inner := s.(selector)
	inner.negate = !inner.negate
	return inner
}

func match(pred func(string) bool) Selector {
	return selector{resolve: func(t *table.Table) ([]string, error) {
		var out []string
		for _, n := range t.Names() {
			if pred(n) {
				out = append(out, n)
			}
		}
		return out, nil
	}}
}

// Select projects the table onto the columns matched by the rules, applied
// in order, with duplicate matches resolved by first occurrence. A negated
// first rule starts from all columns and excludes from there.
func Select(t *table.Table, sels ...Selector) (*table.Table, error) {
	var picked []string
	seen := make(map[string]bool)

	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				picked = append(picked, n)
			}
		}
	}
	remove := func(names []string) {
		drop := make(map[string]bool, len(names))
		for _, n := range names {
			drop[n] = true
		}
		kept := picked[:0]
		for _, n := range picked {
			if drop[n] {
				delete(seen, n)
				continue
			}
			kept = append(kept, n)
		}
		picked = kept
	}

	for i, s := range sels {
		names, err := s.names(t)
		if err != nil {
			return nil, err
		}
		if s.negated() {
			if i == 0 {
				add(t.Names())
			}
			remove(names)
		} else {
			add(names)
		}
	}

	return t.KeepColumns(picked...)
}

// Rename relabels columns. The mapping is new name to old name; every other
// column is retained unchanged in its original position.
func Rename(t *table.Table, mapping map[string]string) (*table.Table, error) {
	oldToNew := make(map[string]string, len(mapping))
	for newName, oldName := range mapping {
		if !t.HasColumn(oldName) {
			return nil, errors.ColumnNotFound(oldName)
		}
		oldToNew[oldName] = newName
	}

	cols := make([]*table.Column, t.ColumnCount())
	for i := 0; i < t.ColumnCount(); i++ {
		c := t.ColumnAt(i)
		if newName, ok := oldToNew[c.Name()]; ok {
			c = c.Rename(newName)
		}
		cols[i] = c
	}
	return table.New(cols...)
}
