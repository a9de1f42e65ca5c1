// Package bytetrie implements the 256-ary byte trie the reference catalog
// is indexed by: each opcode key maps to the list of catalog entries that
// share it (spec.md section 4.2).
package bytetrie

import "github.com/x86ref/x86ref/pkg/refmodel"

type trieNode struct {
	children [256]*trieNode
	values   []*refmodel.Entry
}

// Trie is a 256-ary prefix tree keyed on raw instruction bytes. The zero
// value is ready to use.
type Trie struct {
	root trieNode
}

// New returns an empty Trie.
func New() *Trie {
	return &Trie{}
}

// Add inserts value at key, appending it to any values already present at
// that exact key (spec.md section 4.2: "multiple values per key are
// permitted"). An empty key is a no-op; the root itself never carries
// values.
func (t *Trie) Add(key []byte, value *refmodel.Entry) {
	if len(key) == 0 {
		return
	}
	n := &t.root
	for _, b := range key {
		if n.children[b] == nil {
			n.children[b] = &trieNode{}
		}
		n = n.children[b]
	}
	n.values = append(n.values, value)
}

// Get walks stream byte by byte and returns the concatenation of every
// value attached to a node visited along the walk, ancestor before
// descendant and in insertion order within a node (spec.md section 4.2's
// testable ordering property). The walk stops at the first byte with no
// matching child, or when stream is exhausted; it does not consume or
// mutate stream.
func (t *Trie) Get(stream []byte) []*refmodel.Entry {
	var out []*refmodel.Entry
	n := &t.root
	for _, b := range stream {
		n = n.children[b]
		if n == nil {
			break
		}
		out = append(out, n.values...)
	}
	return out
}
