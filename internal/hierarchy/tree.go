// Package hierarchy nests aggregated demand for treemap style renderers.
package hierarchy

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"jobdemand-go/internal/types"
)

// UnspecifiedLabel names the branch holding null path segments.
const UnspecifiedLabel = "(unspecified)"

// RootLabel names the root node.
const RootLabel = "All"

// Node is one tree node. Value is the sum of the children's values; leaves
// carry the summed measure directly.
type Node struct {
	Name      string          `json:"name"`
	Dimension types.Dimension `json:"dimension,omitempty"`
	Value     float64         `json:"value"`
	Children  []*Node         `json:"children,omitempty"`
	key       types.Key
	index     map[types.Key]*Node
	measures  []float64
}

// Child returns the direct child called name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Build nests rows along path, which must hold two or three distinct
// dimensions present on every row. Children are ordered by name.
func Build(rows []types.AggregateRow, path []types.Dimension) (*Node, error) {
	if len(path) < 2 || len(path) > 3 {
		return nil, fmt.Errorf("%w: path needs 2 or 3 dimensions, got %d", types.ErrInvalidArgument, len(path))
	}
	for i, d := range path {
		if slices.Contains(path[:i], d) {
			return nil, fmt.Errorf("%w: duplicate path dimension %q", types.ErrInvalidArgument, d)
		}
	}
	root := &Node{Name: RootLabel}
	for i, row := range rows {
		n := root
		for _, d := range path {
			k, ok := row.Value(d)
			if !ok {
				return nil, fmt.Errorf("%w: row %d is not aggregated by %q", types.ErrInvalidArgument, i, d)
			}
			n = n.child(k, d)
		}
		n.measures = append(n.measures, row.Measure)
	}
	root.finish()
	return root, nil
}

// child indexes by key so a null segment never merges with a value that
// happens to be spelled like UnspecifiedLabel.
func (n *Node) child(k types.Key, d types.Dimension) *Node {
	if n.index == nil {
		n.index = map[types.Key]*Node{}
	}
	c, ok := n.index[k]
	if !ok {
		c = &Node{Name: k.Label(UnspecifiedLabel), Dimension: d, key: k}
		n.index[k] = c
		n.Children = append(n.Children, c)
	}
	return c
}

// finish sorts children and rolls leaf values up the tree.
func (n *Node) finish() float64 {
	n.index = nil
	if len(n.Children) == 0 {
		n.Value = types.SumMeasures(n.measures)
		n.measures = nil
		return n.Value
	}
	slices.SortFunc(n.Children, func(a, b *Node) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.key.Compare(b.key)
	})
	n.Value = 0
	for _, c := range n.Children {
		n.Value += c.finish()
	}
	return n.Value
}

// Entry is one node in parent-linked form.
type Entry struct {
	ID     string  `json:"id"`
	Parent string  `json:"parent"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
}

// Flatten lists every node below root, parents before children. IDs are the
// slash-joined path so equal labels under different parents stay distinct;
// paths that still collide get a numeric suffix.
func Flatten(root *Node) []Entry {
	var out []Entry
	seen := map[string]bool{}
	var walk func(n *Node, parent string)
	walk = func(n *Node, parent string) {
		for _, c := range n.Children {
			base := c.Name
			if parent != "" {
				base = parent + "/" + c.Name
			}
			id := base
			for i := 2; seen[id]; i++ {
				id = base + "#" + strconv.Itoa(i)
			}
			seen[id] = true
			out = append(out, Entry{ID: id, Parent: parent, Label: c.Name, Value: c.Value})
			walk(c, id)
		}
	}
	if root != nil {
		walk(root, "")
	}
	return out
}
