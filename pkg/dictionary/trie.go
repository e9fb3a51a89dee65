package dictionary

import (
	"iter"
)

// alphabet is the number of child slots per node, one per lowercase ASCII letter.
const alphabet = 26

// trieNode owns its children exclusively; a nil slot means no word continues with that letter.
type trieNode struct {
	children [alphabet]*trieNode
	terminal bool
}

// Trie is a prefix tree over the letters a..z.
// The zero value is not usable, use NewTrie.
type Trie struct {
	root    *trieNode
	size    int
	longest int
}

// NewTrie returns an empty trie whose root is the empty prefix.
func NewTrie() *Trie {
	return &Trie{root: &trieNode{}}
}

// slot maps a byte to its child index, ok is false outside 'a'..'z'.
func slot(c byte) (int, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return int(c - 'a'), true
}

// Insert adds word, creating any missing nodes along its path.
// Words must be non-empty lowercase ASCII; anything else is rejected
// and Insert returns false without touching the trie.
func (t *Trie) Insert(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if _, ok := slot(word[i]); !ok {
			return false
		}
	}

	node := t.root
	for i := 0; i < len(word); i++ {
		idx, _ := slot(word[i])
		if node.children[idx] == nil {
			node.children[idx] = &trieNode{}
		}
		node = node.children[idx]
	}
	if !node.terminal {
		node.terminal = true
		t.size++
	}
	if len(word) > t.longest {
		t.longest = len(word)
	}
	return true
}

// Search reports whether word was inserted. It never fails: any byte
// outside 'a'..'z' simply makes the answer false.
func (t *Trie) Search(word string) bool {
	node := t.root
	for i := 0; i < len(word); i++ {
		idx, ok := slot(word[i])
		if !ok {
			return false
		}
		node = node.children[idx]
		if node == nil {
			return false
		}
	}
	return node.terminal
}

// Len is the number of distinct words stored.
func (t *Trie) Len() int {
	return t.size
}

// frame is one pending visit of the enumeration work stack.
type frame struct {
	node  *trieNode
	depth int
	// letter leading into node, unused for the root
	letter byte
}

// Words yields every stored word in lexicographic order. The sequence is
// recomputed on every range, so it can be restarted freely; the traversal
// uses an explicit stack and never recurses.
func (t *Trie) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		path := make([]byte, 0, t.longest)
		stack := []frame{{node: t.root}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			// ancestors below depth-1 are shared with the previously visited node
			if f.depth > 0 {
				path = append(path[:f.depth-1], f.letter)
			}

			if f.node.terminal {
				if !yield(string(path)) {
					return
				}
			}

			// push z..a so that a is popped first
			for i := alphabet - 1; i >= 0; i-- {
				if child := f.node.children[i]; child != nil {
					stack = append(stack, frame{node: child, depth: f.depth + 1, letter: byte('a' + i)})
				}
			}
		}
	}
}

// Enumerate collects Words into a fresh slice.
func (t *Trie) Enumerate() []string {
	out := make([]string, 0, t.size)
	for w := range t.Words() {
		out = append(out, w)
	}
	return out
}
