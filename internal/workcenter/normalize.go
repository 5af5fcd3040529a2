package workcenter

import "strings"

// Canonical work-center categories. Raw names that match none of these pass
// through unchanged; the normalizer never invents a category.
const (
	Assembly  = "Assembly"
	Cutting   = "Cutting"
	Packaging = "Packaging"
)

// compoundSeparator splits names like "Sewing / Line 2". Only the first
// segment carries the category.
const compoundSeparator = " / "

// Normalize maps a raw work-center name onto its canonical category.
//
// Matching is case-insensitive substring matching. "Rope" and "Sewing" are
// operationally interchangeable labor pools upstream records separately, so
// both fold into Assembly; keeping them apart would split the sample and make
// the averages meaningless.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return name
	}

	if idx := strings.Index(name, compoundSeparator); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "sewing"),
		strings.Contains(lower, "assembly"),
		strings.Contains(lower, "rope"):
		return Assembly
	case strings.Contains(lower, "cutting"):
		return Cutting
	case strings.Contains(lower, "packaging"),
		strings.Contains(lower, "packing"):
		return Packaging
	default:
		return name
	}
}

// IsCanonical reports whether name is one of the fixed categories.
func IsCanonical(name string) bool {
	switch name {
	case Assembly, Cutting, Packaging:
		return true
	default:
		return false
	}
}
