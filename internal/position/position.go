package position

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the directive kind of a key position.
type Kind int

const (
	KindStart Kind = iota
	KindEnd
	KindMiddle
	KindBefore
	KindAfter
)

var kindNames = map[Kind]string{
	KindStart:  "start",
	KindEnd:    "end",
	KindMiddle: "middle",
	KindBefore: "before",
	KindAfter:  "after",
}

// String returns the directive keyword.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KeyPosition is a parsed position directive.
type KeyPosition struct {
	Kind Kind
	// Weight orders keys of the same start, end, before or after group.
	Weight int
	// Index is the numeric position of a middle key.
	Index float64
	// Reference is the anchor key of before and after directives.
	Reference string
}

// Start returns "start weight".
func Start(weight int) KeyPosition { return KeyPosition{Kind: KindStart, Weight: weight} }

// End returns "end weight".
func End(weight int) KeyPosition { return KeyPosition{Kind: KindEnd, Weight: weight} }

// Middle returns a numeric position.
func Middle(index float64) KeyPosition { return KeyPosition{Kind: KindMiddle, Index: index} }

// Before returns "before ref weight".
func Before(ref string, weight int) KeyPosition {
	return KeyPosition{Kind: KindBefore, Reference: ref, Weight: weight}
}

// After returns "after ref weight".
func After(ref string, weight int) KeyPosition {
	return KeyPosition{Kind: KindAfter, Reference: ref, Weight: weight}
}

// String renders the directive in its canonical form.
func (p KeyPosition) String() string {
	switch p.Kind {
	case KindMiddle:
		return strconv.FormatFloat(p.Index, 'g', -1, 64)
	case KindBefore, KindAfter:
		return strings.TrimSpace(p.Kind.String() + " " + p.Reference + " " + weightSuffix(p.Weight))
	default:
		return strings.TrimSpace(p.Kind.String() + " " + weightSuffix(p.Weight))
	}
}

func weightSuffix(w int) string {
	if w == 0 {
		return ""
	}

	return strconv.Itoa(w)
}

// Parse reads a directive: "start", "start 10", "end", "end 10",
// "before key", "before key 10", "after key", "after key 10", or a number.
func Parse(s string) (KeyPosition, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return KeyPosition{}, &InvalidPositionError{Value: s}
	}

	switch fields[0] {
	case "start", "end":
		kind := KindStart
		if fields[0] == "end" {
			kind = KindEnd
		}

		weight, ok := optionalWeight(fields[1:])
		if !ok {
			return KeyPosition{}, &InvalidPositionError{Value: s}
		}

		return KeyPosition{Kind: kind, Weight: weight}, nil

	case "before", "after":
		if len(fields) < 2 {
			return KeyPosition{}, &InvalidPositionError{Value: s}
		}

		kind := KindBefore
		if fields[0] == "after" {
			kind = KindAfter
		}

		weight, ok := optionalWeight(fields[2:])
		if !ok {
			return KeyPosition{}, &InvalidPositionError{Value: s}
		}

		return KeyPosition{Kind: kind, Reference: fields[1], Weight: weight}, nil
	}

	if len(fields) == 1 {
		if n, ok := numericKey(fields[0]); ok {
			return Middle(n), nil
		}
	}

	return KeyPosition{}, &InvalidPositionError{Value: s}
}

func optionalWeight(rest []string) (int, bool) {
	switch len(rest) {
	case 0:
		return 0, true
	case 1:
		w, err := strconv.Atoi(rest[0])
		return w, err == nil
	default:
		return 0, false
	}
}

// numericKey reports whether key is a number and returns its value.
func numericKey(key string) (float64, bool) {
	n, err := strconv.ParseFloat(key, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}

	return n, true
}
