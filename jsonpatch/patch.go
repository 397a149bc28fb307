// Package jsonpatch applies dot-path patch operations to JSON-shaped
// documents (maps, slices, and scalars as decoded by encoding/json).
// Paths use dot notation with bare integer segments addressing array
// elements, e.g. "series.0.data" or "yAxis.plotLines".
package jsonpatch

import (
	"fmt"
	"strings"
)

// Operation kinds. replace and add behave identically: both set the
// value at the path, creating intermediate containers as needed.
const (
	OpReplace = "replace"
	OpAdd     = "add"
	OpRemove  = "remove"
)

// Operation is a single patch instruction.
type Operation struct {
	Path  string `json:"path"`
	Op    string `json:"op"`
	Value any    `json:"value,omitempty"`
}

// Validate checks an operation's shape. Set operations need a value;
// remove does not.
func (o Operation) Validate() error {
	if o.Path == "" {
		return fmt.Errorf("operation path must not be empty")
	}
	switch o.Op {
	case OpReplace, OpAdd:
		if o.Value == nil {
			return fmt.Errorf("%s operation at %q requires a value", o.Op, o.Path)
		}
		return nil
	case OpRemove:
		return nil
	default:
		return fmt.Errorf("unknown operation %q at %q", o.Op, o.Path)
	}
}

// OpError pairs a failed operation with its cause.
type OpError struct {
	Operation Operation
	Err       error
}

func (e OpError) Error() string {
	return fmt.Sprintf("apply %s at %q: %v", e.Operation.Op, e.Operation.Path, e.Err)
}

// Apply runs the operations against a deep copy of the document and
// returns the modified copy. Operations apply independently: a failed
// operation is reported in the returned slice and the rest still run.
// The input document is never mutated.
func Apply(doc map[string]any, operations []Operation) (map[string]any, []OpError) {
	modified, _ := Clone(doc).(map[string]any)
	if modified == nil {
		modified = map[string]any{}
	}

	var failures []OpError
	for _, op := range operations {
		if err := op.Validate(); err != nil {
			failures = append(failures, OpError{Operation: op, Err: err})
			continue
		}

		var err error
		switch op.Op {
		case OpReplace, OpAdd:
			err = setPath(modified, op.Path, op.Value)
		case OpRemove:
			removePath(modified, op.Path)
		}
		if err != nil {
			failures = append(failures, OpError{Operation: op, Err: err})
		}
	}

	return modified, failures
}

// Clone deep-copies a JSON-shaped value. Scalars are returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Clone(val)
		}
		return out
	default:
		return v
	}
}

// parseIndex recognizes bare non-negative decimal integers. Anything
// else ("-1", "1.5", "0x1", "") is a map key, not an array index.
func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func setPath(root map[string]any, path string, value any) error {
	segs := strings.Split(path, ".")
	_, err := setSegments(root, segs, path, value)
	return err
}

// setSegments walks one segment and recurses, returning the (possibly
// replaced) container so array growth propagates to the parent.
//
// Intermediate containers self-heal: a missing or scalar child is
// replaced with an array or object depending on whether the next
// segment is numeric. An existing object under a numeric segment does
// not heal; that is a genuine type mismatch and errors out.
func setSegments(container any, segs []string, fullPath string, value any) (any, error) {
	if len(segs) == 0 {
		return value, nil
	}
	seg := segs[0]

	if idx, numeric := parseIndex(seg); numeric {
		arr, ok := container.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array at segment %q of path %q", seg, fullPath)
		}
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		if len(segs) == 1 {
			arr[idx] = value
			return arr, nil
		}
		child := healChild(arr[idx], segs[1])
		newChild, err := setSegments(child, segs[1:], fullPath, value)
		if err != nil {
			return nil, err
		}
		arr[idx] = newChild
		return arr, nil
	}

	m, ok := container.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object at segment %q of path %q", seg, fullPath)
	}
	if len(segs) == 1 {
		m[seg] = value
		return m, nil
	}
	child := healChild(m[seg], segs[1])
	newChild, err := setSegments(child, segs[1:], fullPath, value)
	if err != nil {
		return nil, err
	}
	m[seg] = newChild
	return m, nil
}

// healChild prepares a child for descent. Existing containers pass
// through untouched; nil and scalars are replaced with an empty
// container typed by the next segment.
func healChild(child any, nextSeg string) any {
	switch child.(type) {
	case map[string]any, []any:
		return child
	}
	if _, numeric := parseIndex(nextSeg); numeric {
		return []any{}
	}
	return map[string]any{}
}

// removePath deletes the value at path. Missing paths and type
// mismatches are silent no-ops; removal never creates containers.
func removePath(root map[string]any, path string) {
	segs := strings.Split(path, ".")
	removeSegments(root, segs)
}

func removeSegments(container any, segs []string) any {
	seg := segs[0]

	if idx, numeric := parseIndex(seg); numeric {
		arr, ok := container.([]any)
		if !ok || idx >= len(arr) {
			return container
		}
		if len(segs) == 1 {
			return append(arr[:idx], arr[idx+1:]...)
		}
		if arr[idx] == nil {
			return arr
		}
		arr[idx] = removeSegments(arr[idx], segs[1:])
		return arr
	}

	m, ok := container.(map[string]any)
	if !ok {
		return container
	}
	if len(segs) == 1 {
		delete(m, seg)
		return m
	}
	child := m[seg]
	if child == nil {
		return m
	}
	m[seg] = removeSegments(child, segs[1:])
	return m
}
