package resource

// Node is one achievable combination of produced resources. Each node holds
// the running totals from the root down to itself.
type Node struct {
	parent    *Node
	children  []*Node
	resources Bundle
	buyable   Bundle
}

// Parent returns the node this one was derived from (nil for the root).
func (n *Node) Parent() *Node {
	return n.parent
}

// Resources returns a copy of every resource available along this path.
func (n *Node) Resources() Bundle {
	return n.resources.Clone()
}

// Buyable returns a copy of the resources along this path that neighbors may buy.
func (n *Node) Buyable() Bundle {
	return n.buyable.Clone()
}

// Get returns the produced amount of a kind along this path.
func (n *Node) Get(k Kind) int {
	return n.resources.Get(k)
}

// Tree enumerates every resource bundle a city can realise from its
// production. Non-optional production extends every leaf in place; optional
// production forks every leaf once per alternative.
//
// An empty tree has a single empty leaf, its root.
type Tree struct {
	root        *Node
	leaves      []*Node
	productions int
}

// NewTree creates an empty production tree.
func NewTree() *Tree {
	root := &Node{resources: Bundle{}, buyable: Bundle{}}
	return &Tree{root: root, leaves: []*Node{root}}
}

// AddProduction extends the tree with the production of a newly built card.
// Gold entries are ignored: coins never flow through the tree.
func (t *Tree) AddProduction(qs []Quantity, optional, buyable bool) {
	produced := make([]Quantity, 0, len(qs))
	for _, q := range qs {
		if q.Kind == Gold || q.Count <= 0 {
			continue
		}
		produced = append(produced, q)
	}
	if len(produced) == 0 {
		return
	}

	next := make([]*Node, 0, len(t.leaves)*len(produced))
	for _, leaf := range t.leaves {
		if optional {
			for _, q := range produced {
				next = append(next, leaf.extend(buyable, q))
			}
			continue
		}
		next = append(next, leaf.extend(buyable, produced...))
	}

	t.leaves = next
	t.productions++
}

func (n *Node) extend(buyable bool, qs ...Quantity) *Node {
	child := &Node{
		parent:    n,
		resources: n.resources.With(qs...),
		buyable:   n.buyable.Clone(),
	}
	if buyable {
		child.buyable = child.buyable.With(qs...)
	}
	n.children = append(n.children, child)
	return child
}

// Leaves returns every current leaf.
func (t *Tree) Leaves() []*Node {
	out := make([]*Node, len(t.leaves))
	copy(out, t.leaves)
	return out
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.leaves)
}

// Productions returns how many productions have been added.
func (t *Tree) Productions() int {
	return t.productions
}

// BuyableResources returns the buyable aggregate of every leaf. A positive
// skip returns the aggregate of each leaf's ancestor that many levels up
// instead, hiding the skip most recently added productions. Every
// production adds exactly one level.
func (t *Tree) BuyableResources(skip int) []Bundle {
	out := make([]Bundle, 0, len(t.leaves))
	for _, leaf := range t.leaves {
		node := leaf
		for i := 0; i < skip && node.parent != nil; i++ {
			node = node.parent
		}
		out = append(out, node.Buyable())
	}
	return out
}
