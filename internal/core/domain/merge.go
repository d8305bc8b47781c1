package domain

import (
	"maps"
	"slices"
	"strings"
)

// Side selects one side of a three-way merge conflict.
type Side string

const (
	// SideLocal keeps the fork's value.
	SideLocal Side = "local"
	// SideUpstream takes the upstream value.
	SideUpstream Side = "upstream"
)

// Conflict is a field changed differently on both sides since the fork point.
// Absent values are reported as nil.
type Conflict struct {
	Path     string   `json:"path"`
	Keys     []string `json:"-"`
	Base     any      `json:"base"`
	Local    any      `json:"local"`
	Upstream any      `json:"upstream"`
}

// TextMerger attempts to merge two edits of a text field. It returns false when the
// edits overlap.
type TextMerger func(base, local, upstream string) (string, bool)

// MergeRules tunes a three-way merge.
type MergeRules struct {
	// Ignore lists top-level keys taken from the local side without comparison.
	Ignore []string
	// Text, when set, is tried before reporting a conflict between two string edits.
	Text TextMerger
}

// MergeResult is the outcome of a three-way merge. Merged holds the local value at
// every conflicting path until a resolution is applied.
type MergeResult struct {
	Merged    map[string]any
	Conflicts []Conflict
}

type absentValue struct{}

var absent = absentValue{}

// ThreeWayMerge merges upstream changes into local relative to base. Maps merge per key,
// lists are unioned, and scalars changed on both sides become conflicts.
func ThreeWayMerge(base, local, upstream map[string]any, rules MergeRules) MergeResult {
	m := &merger{rules: rules}
	merged := m.mergeMaps(nil, base, local, upstream, true)
	return MergeResult{Merged: merged, Conflicts: m.conflicts}
}

type merger struct {
	rules     MergeRules
	conflicts []Conflict
}

func (m *merger) mergeMaps(path []string, base, local, upstream map[string]any, top bool) map[string]any {
	keys := make(map[string]struct{})
	for _, src := range []map[string]any{base, local, upstream} {
		for k := range src {
			keys[k] = struct{}{}
		}
	}

	out := make(map[string]any, len(keys))
	for _, k := range slices.Sorted(maps.Keys(keys)) {
		if top && slices.Contains(m.rules.Ignore, k) {
			if v, ok := local[k]; ok {
				out[k] = CloneValue(v)
			}
			continue
		}
		v := m.mergeValue(append(slices.Clone(path), k), lookup(base, k), lookup(local, k), lookup(upstream, k))
		if v != absent {
			out[k] = v
		}
	}
	return out
}

func (m *merger) mergeValue(path []string, base, local, upstream any) any {
	switch {
	case ValuesEqual(local, upstream):
		return CloneValue(local)
	case ValuesEqual(local, base):
		return CloneValue(upstream)
	case ValuesEqual(upstream, base):
		return CloneValue(local)
	}

	if lm, ok := local.(map[string]any); ok {
		if um, ok := upstream.(map[string]any); ok {
			bm, _ := base.(map[string]any)
			return m.mergeMaps(path, bm, lm, um, false)
		}
	}
	if ll, ok := local.([]any); ok {
		if ul, ok := upstream.([]any); ok {
			bl, _ := base.([]any)
			return unionLists(bl, ll, ul)
		}
	}
	if m.rules.Text != nil {
		bs, bok := base.(string)
		ls, lok := local.(string)
		us, uok := upstream.(string)
		if bok && lok && uok {
			if merged, ok := m.rules.Text(bs, ls, us); ok {
				return merged
			}
		}
	}

	m.conflicts = append(m.conflicts, Conflict{
		Path:     strings.Join(path, "."),
		Keys:     path,
		Base:     present(base),
		Local:    present(local),
		Upstream: present(upstream),
	})
	return CloneValue(local)
}

// unionLists keeps local order, then appends upstream additions. Items the local side
// removed since base stay removed.
func unionLists(base, local, upstream []any) []any {
	out := make([]any, 0, len(local)+len(upstream))
	for _, v := range local {
		out = append(out, CloneValue(v))
	}
	for _, v := range upstream {
		if containsValue(local, v) || containsValue(base, v) {
			continue
		}
		out = append(out, CloneValue(v))
	}
	return out
}

// Overlay merges child over parent: maps merge recursively, lists are unioned
// (parent items first) and child scalars win.
func Overlay(parent, child map[string]any) map[string]any {
	out := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		out[k] = CloneValue(v)
	}
	for k, cv := range child {
		pv, ok := out[k]
		if !ok {
			out[k] = CloneValue(cv)
			continue
		}
		switch c := cv.(type) {
		case map[string]any:
			if p, ok := pv.(map[string]any); ok {
				out[k] = Overlay(p, c)
				continue
			}
		case []any:
			if p, ok := pv.([]any); ok {
				out[k] = unionLists(nil, p, c)
				continue
			}
		}
		out[k] = CloneValue(cv)
	}
	return out
}

// Resolve applies a side to a conflict inside a merged document.
func (r *MergeResult) Resolve(c Conflict, side Side) {
	value := c.Local
	if side == SideUpstream {
		value = c.Upstream
	}
	setPath(r.Merged, c.Keys, value)
}

func setPath(doc map[string]any, keys []string, value any) {
	if len(keys) == 0 {
		return
	}
	cur := doc
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[k] = next
		}
		cur = next
	}
	last := keys[len(keys)-1]
	if value == nil {
		delete(cur, last)
		return
	}
	cur[last] = CloneValue(value)
}

func lookup(m map[string]any, k string) any {
	if m == nil {
		return absent
	}
	v, ok := m[k]
	if !ok {
		return absent
	}
	return v
}

func present(v any) any {
	if v == absent {
		return nil
	}
	return v
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if ValuesEqual(item, v) {
			return true
		}
	}
	return false
}
