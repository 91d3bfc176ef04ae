// Package theme implements the design-token tree shared by the resolver, the
// plugin registry and the built-in plugins.
//
// A Tree maps token categories ("colors", "spacing") to nested mappings of
// token definitions. Nested mappings are always stored as map[string]any and
// lists as []any, whatever decoder produced them, so every consumer can rely
// on a single shape.
package theme

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/mitchellh/copystructure"
)

// ErrNotMapping is returned when a value expected to be a mapping is a list or scalar.
var ErrNotMapping = errors.New("not a mapping")

// Tree is a normalized design-token tree.
type Tree map[string]any

// Normalize converts a decoded document into a Tree.
// A nil value yields a nil Tree. Lists and scalars fail with ErrNotMapping.
func Normalize(v any) (Tree, error) {
	if v == nil {
		return nil, nil
	}

	m, ok := normalizeMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotMapping, describe(v))
	}

	return Tree(m), nil
}

// IsMapping reports whether v is any kind of string-keyed mapping.
func IsMapping(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Map
}

// normalizeMap converts any map kind into map[string]any, normalizing values recursively.
func normalizeMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Tree:
		return normalizeMap(map[string]any(m))
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = normalizeValue(val)
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = normalizeValue(iter.Value().Interface())
	}
	return out, true
}

func normalizeValue(v any) any {
	if v == nil {
		return nil
	}
	if m, ok := normalizeMap(v); ok {
		return m
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		// []byte stays a scalar
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	}

	return v
}

// Clone returns a deep copy of t.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	return Tree(cloneMap(t))
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c, err := copystructure.Copy(m)
	if err != nil {
		// normalized trees only hold maps, slices and scalars
		panic(fmt.Sprintf("theme: clone: %v", err))
	}
	return c.(map[string]any)
}

func cloneValue(v any) any {
	if m, ok := v.(map[string]any); ok {
		return cloneMap(m)
	}
	if v == nil {
		return nil
	}
	c, err := copystructure.Copy(v)
	if err != nil {
		panic(fmt.Sprintf("theme: clone: %v", err))
	}
	return c
}

// Merge returns a new tree holding base deep-merged with ext.
//
// Mappings present on both sides are merged recursively. For every other
// collision (leaf, list, or a mapping meeting a leaf) the value from ext
// wins. Neither input is modified.
func Merge(base, ext Tree) Tree {
	out := Clone(base)
	if out == nil {
		out = Tree{}
	}
	mergeInto(out, ext)
	return out
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			continue
		}
		dst[k] = cloneValue(v)
	}
}

// Fill copies entries of src into dst only where dst has no value yet,
// descending into mappings present on both sides. Existing values always win.
func Fill(dst Tree, src map[string]any) {
	fillInto(dst, src)
}

func fillInto(dst, src map[string]any) {
	for k, v := range src {
		existing, ok := dst[k]
		if !ok {
			dst[k] = cloneValue(v)
			continue
		}
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := existing.(map[string]any)
		if srcIsMap && dstIsMap {
			fillInto(dstMap, srcMap)
		}
	}
}

// Lookup returns the value at path.
func (t Tree) Lookup(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var cur any = map[string]any(t)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at path, creating intermediate mappings and replacing
// any leaf found on the way.
func (t Tree) Set(path []string, value any) error {
	if len(path) == 0 {
		return errors.New("empty path")
	}

	cur := map[string]any(t)
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = normalizeValue(value)
	return nil
}

// Categories returns the top-level keys of t in sorted order.
func (t Tree) Categories() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten returns every leaf of t keyed by its dotted path, plus the sorted key list.
func Flatten(t Tree) (map[string]any, []string) {
	flat, _ := maps.Flatten(map[string]any(t), nil, ".")
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return flat, keys
}

// ParsePath splits a token path such as "colors.blue.500" or "spacing[0.5]"
// into its segments. Bracketed segments may contain dots.
func ParsePath(s string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
		inBrack  bool
	)

	flush := func() {
		if current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case inBrack && r == ']':
			segments = append(segments, current.String())
			current.Reset()
			inBrack = false
		case inBrack:
			current.WriteRune(r)
		case r == '[':
			flush()
			inBrack = true
		case r == '.':
			flush()
		case r == ']':
			return nil, fmt.Errorf("unexpected ']' in path %q", s)
		default:
			current.WriteRune(r)
		}
	}

	if inBrack {
		return nil, fmt.Errorf("unterminated '[' in path %q", s)
	}
	flush()

	if len(segments) == 0 {
		return nil, fmt.Errorf("empty path %q", s)
	}
	return segments, nil
}

func describe(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.String:
		return fmt.Sprintf("string %q", v)
	default:
		return fmt.Sprintf("%T", v)
	}
}
