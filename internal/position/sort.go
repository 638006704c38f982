package position

import (
	"cmp"
	"errors"
	"slices"

	"fusion-engine/internal/graph"
)

// Sort orders keys by their directive strings. Keys missing from positions,
// or mapped to an empty string, have no directive.
func Sort(keys []string, positions map[string]string) ([]string, error) {
	parsed := make(map[string]KeyPosition, len(positions))

	for key, raw := range positions {
		if raw == "" {
			continue
		}

		p, err := Parse(raw)
		if err != nil {
			var invalid *InvalidPositionError
			if errors.As(err, &invalid) {
				invalid.Key = key
			}

			return nil, err
		}

		parsed[key] = p
	}

	return SortPositions(keys, parsed)
}

type middle struct {
	key      string
	value    float64
	explicit bool
}

type weighted struct {
	key    string
	weight int
}

// SortPositions orders keys by parsed directives.
func SortPositions(keys []string, positions map[string]KeyPosition) ([]string, error) {
	known := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))

	for _, k := range keys {
		if _, dup := known[k]; !dup {
			known[k] = struct{}{}
			unique = append(unique, k)
		}
	}

	var (
		starts, ends []weighted
		middles      []middle
		plain        []string
		referencing  []string
	)

	before := make(map[string][]weighted)
	after := make(map[string][]weighted)
	referenceOf := make(map[string]string)

	for _, k := range unique {
		p, ok := positions[k]
		if !ok {
			if n, numeric := numericKey(k); numeric {
				middles = append(middles, middle{key: k, value: n})
			} else {
				plain = append(plain, k)
			}

			continue
		}

		switch p.Kind {
		case KindStart:
			starts = append(starts, weighted{k, p.Weight})
		case KindEnd:
			ends = append(ends, weighted{k, p.Weight})
		case KindMiddle:
			middles = append(middles, middle{key: k, value: p.Index, explicit: true})
		case KindBefore, KindAfter:
			if _, ok := known[p.Reference]; !ok {
				return nil, &UnknownReferenceError{Key: k, Reference: p.Reference}
			}

			referencing = append(referencing, k)
			referenceOf[k] = p.Reference

			if p.Kind == KindBefore {
				before[p.Reference] = append(before[p.Reference], weighted{k, p.Weight})
			} else {
				after[p.Reference] = append(after[p.Reference], weighted{k, p.Weight})
			}
		default:
			return nil, &InvalidPositionError{Key: k, Value: p.String()}
		}
	}

	if err := detectReferenceCycle(referencing, referenceOf); err != nil {
		return nil, err
	}

	seq := baseSequence(starts, middles, plain, ends)

	return splice(seq, before, after, len(referencing))
}

// baseSequence places every key that does not refer to another key.
func baseSequence(starts []weighted, middles []middle, plain []string, ends []weighted) []string {
	slices.SortFunc(starts, func(a, b weighted) int {
		return cmp.Or(cmp.Compare(b.weight, a.weight), cmp.Compare(a.key, b.key))
	})

	slices.SortFunc(middles, func(a, b middle) int {
		if c := cmp.Compare(a.value, b.value); c != 0 {
			return c
		}

		if a.explicit != b.explicit {
			if a.explicit {
				return -1
			}

			return 1
		}

		return cmp.Compare(a.key, b.key)
	})

	slices.Sort(plain)

	slices.SortFunc(ends, func(a, b weighted) int {
		return cmp.Or(cmp.Compare(a.weight, b.weight), cmp.Compare(a.key, b.key))
	})

	seq := make([]string, 0, len(starts)+len(middles)+len(plain)+len(ends))

	for _, w := range starts {
		seq = append(seq, w.key)
	}

	for _, m := range middles {
		seq = append(seq, m.key)
	}

	seq = append(seq, plain...)

	for _, w := range ends {
		seq = append(seq, w.key)
	}

	return seq
}

// splice inserts before/after groups around their reference until every
// group is placed.
func splice(seq []string, before, after map[string][]weighted, pending int) ([]string, error) {
	for pending > 0 {
		progress := false

		for i := 0; i < len(seq); i++ {
			ref := seq[i]

			if group, ok := before[ref]; ok {
				// weight ascending, so the highest weight lands right before the reference
				slices.SortFunc(group, func(a, b weighted) int {
					return cmp.Or(cmp.Compare(a.weight, b.weight), cmp.Compare(a.key, b.key))
				})

				seq = slices.Insert(seq, i, keysOf(group)...)
				i += len(group)
				pending -= len(group)
				progress = true

				delete(before, ref)
			}

			if group, ok := after[ref]; ok {
				// weight descending, so the highest weight lands right after the reference
				slices.SortFunc(group, func(a, b weighted) int {
					return cmp.Or(cmp.Compare(b.weight, a.weight), cmp.Compare(a.key, b.key))
				})

				seq = slices.Insert(seq, i+1, keysOf(group)...)
				pending -= len(group)
				progress = true

				delete(after, ref)
			}
		}

		if !progress {
			for ref, group := range before {
				return nil, &UnknownReferenceError{Key: group[0].key, Reference: ref}
			}

			for ref, group := range after {
				return nil, &UnknownReferenceError{Key: group[0].key, Reference: ref}
			}

			break
		}
	}

	return seq, nil
}

func keysOf(group []weighted) []string {
	out := make([]string, len(group))
	for i, w := range group {
		out[i] = w.key
	}

	return out
}

func detectReferenceCycle(referencing []string, referenceOf map[string]string) error {
	err := graph.DetectCycle(graph.Config[string]{
		Starts: slices.Sorted(slices.Values(referencing)),
		Next: func(k string) ([]string, error) {
			if ref, ok := referenceOf[k]; ok {
				return []string{ref}, nil
			}

			return nil, nil
		},
	})

	var cyc *graph.CycleError[string]
	if errors.As(err, &cyc) {
		return &ReferenceCycleError{Cycle: cyc.Path}
	}

	return err
}
