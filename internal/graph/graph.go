// Package graph provides cycle detection over implicit directed graphs.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// CycleError reports a cycle. Path starts and ends with the same node.
type CycleError[K comparable] struct {
	Path []K
}

// Error returns the error string.
func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = fmt.Sprint(k)
	}

	return "cycle detected: " + strings.Join(parts, " -> ")
}

// Config configures a cycle search.
type Config[K comparable] struct {
	// Starts are visited in order.
	Starts []K
	// Next returns the outgoing edges of a node. Nodes without edges return nil.
	Next func(K) ([]K, error)
}

// DetectCycle walks edges from every start and returns a *CycleError for the
// first cycle found.
func DetectCycle[K comparable](cfg Config[K]) error {
	if cfg.Next == nil {
		return errors.New("cycle detect: next function is nil")
	}

	states := make(map[K]visitState, len(cfg.Starts))

	var stack []K

	var visit func(key K) error

	visit = func(key K) error {
		switch states[key] {
		case stateVisiting:
			return &CycleError[K]{Path: cyclePath(stack, key)}
		case stateDone:
			return nil
		}

		states[key] = stateVisiting
		stack = append(stack, key)

		neighbors, err := cfg.Next(key)
		if err != nil {
			return err
		}

		for _, next := range neighbors {
			if err := visit(next); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		states[key] = stateDone

		return nil
	}

	for _, start := range cfg.Starts {
		if err := visit(start); err != nil {
			return err
		}
	}

	return nil
}

func cyclePath[K comparable](stack []K, closing K) []K {
	for i, k := range stack {
		if k == closing {
			out := make([]K, 0, len(stack)-i+1)
			out = append(out, stack[i:]...)

			return append(out, closing)
		}
	}

	return []K{closing, closing}
}
