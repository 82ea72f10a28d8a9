package reconcile

import (
	"slices"
	"strings"
)

// compareLines orders lines the way `sort -n` does in the C locale: by the
// leading numeric prefix (blanks, optional minus, digits, optional fraction),
// lines without one counting as zero, with byte order as the last resort.
// Two lines compare equal only when their bytes are identical.
func compareLines(a, b string) int {
	if c := compareNumeric(numericPrefix(a), numericPrefix(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// sortLines sorts lines in place. Duplicates are kept.
func sortLines(lines []string) {
	slices.SortStableFunc(lines, compareLines)
}

type number struct {
	neg  bool
	intg string // without leading zeros
	frac string // without trailing zeros
}

func (n number) zero() bool {
	return n.intg == "" && n.frac == ""
}

func numericPrefix(s string) number {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	var n number
	if i < len(s) && s[i] == '-' {
		n.neg = true
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n.intg = strings.TrimLeft(s[start:i], "0")

	if i < len(s) && s[i] == '.' {
		i++
		start = i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		n.frac = strings.TrimRight(s[start:i], "0")
	}

	if n.zero() {
		n.neg = false
	}
	return n
}

func compareNumeric(a, b number) int {
	if a.neg != b.neg {
		if a.neg {
			return -1
		}
		return 1
	}
	c := compareMagnitude(a, b)
	if a.neg {
		return -c
	}
	return c
}

func compareMagnitude(a, b number) int {
	if len(a.intg) != len(b.intg) {
		if len(a.intg) < len(b.intg) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.intg, b.intg); c != 0 {
		return c
	}
	return strings.Compare(a.frac, b.frac)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// missingLines returns the lines of sorted candidate that have no equal
// partner in sorted reference, in candidate order. Equal lines pair one to
// one, so a title listed twice in candidate and once in reference is
// reported once. Reference-only lines are ignored.
func missingLines(reference, candidate []string) []string {
	var out []string
	i, j := 0, 0
	for j < len(candidate) {
		if i >= len(reference) {
			out = append(out, candidate[j:]...)
			break
		}
		switch c := compareLines(reference[i], candidate[j]); {
		case c < 0:
			i++
		case c > 0:
			out = append(out, candidate[j])
			j++
		default:
			i++
			j++
		}
	}
	return out
}
