package kosmo

import "math/rand"

// ostree is an augmented treap over arena indices, ordered by a caller-
// supplied comparator. Every node caches the total byte size of its
// subtree, which turns "sum of sizes of everything ranked before idx" into
// an O(log n) expected-time walk (prefixBytes) instead of an O(n) scan.
//
// Nodes never own their payload: they hold only an arena index. Any
// mutation of an entry's ranking fields must happen between a delete and a
// reinsert of that index — the tree's shape is a snapshot of the
// comparator's answers at insertion time, and a node whose key changed in
// place would silently corrupt the ordering.
type ostree struct {
	root *osNode
	rnd  *rand.Rand
	less func(a, b int32) bool
	size func(idx int32) uint32
	n    int
}

type osNode struct {
	idx          int32
	priority     uint64
	left, right  *osNode
	subtreeBytes uint64
}

// newOSTree builds an empty tree. seed fixes the treap's random priorities
// so that repeated runs over the same trace produce bit-identical trees,
// matching the determinism the rest of the simulator relies on.
func newOSTree(seed int64, less func(a, b int32) bool, size func(idx int32) uint32) *ostree {
	return &ostree{rnd: rand.New(rand.NewSource(seed)), less: less, size: size}
}

func nodeBytes(n *osNode) uint64 {
	if n == nil {
		return 0
	}
	return n.subtreeBytes
}

func (t *ostree) update(n *osNode) {
	n.subtreeBytes = nodeBytes(n.left) + nodeBytes(n.right) + uint64(t.size(n.idx))
}

// Insert adds idx, which must not already be present.
func (t *ostree) Insert(idx int32) {
	n := &osNode{idx: idx, priority: t.rnd.Uint64()}
	t.update(n)
	t.root = t.insert(t.root, n)
	t.n++
}

func (t *ostree) insert(root, n *osNode) *osNode {
	if root == nil {
		return n
	}
	if root.priority < n.priority {
		l, r := t.split(root, n.idx)
		n.left, n.right = l, r
		t.update(n)
		return n
	}
	if t.less(n.idx, root.idx) {
		root.left = t.insert(root.left, n)
	} else {
		root.right = t.insert(root.right, n)
	}
	t.update(root)
	return root
}

func (t *ostree) split(root *osNode, idx int32) (l, r *osNode) {
	if root == nil {
		return nil, nil
	}
	if t.less(root.idx, idx) {
		l, r = t.split(root.right, idx)
		root.right = l
		t.update(root)
		return root, r
	}
	l, r = t.split(root.left, idx)
	root.left = r
	t.update(root)
	return l, root
}

// Delete removes idx, which must be present.
func (t *ostree) Delete(idx int32) {
	t.root = t.delete(t.root, idx)
	t.n--
}

func (t *ostree) delete(root *osNode, idx int32) *osNode {
	if root == nil {
		return nil
	}
	if root.idx == idx {
		return t.merge(root.left, root.right)
	}
	if t.less(idx, root.idx) {
		root.left = t.delete(root.left, idx)
	} else {
		root.right = t.delete(root.right, idx)
	}
	t.update(root)
	return root
}

func (t *ostree) merge(l, r *osNode) *osNode {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.priority > r.priority {
		l.right = t.merge(l.right, r)
		t.update(l)
		return l
	}
	r.left = t.merge(l, r.left)
	t.update(r)
	return r
}

// PrefixBytes returns the sum of sizes of all indices ranked strictly
// before idx (less evictable than idx), without idx needing to be present
// in the tree.
func (t *ostree) PrefixBytes(idx int32) uint64 {
	var sum uint64
	n := t.root
	for n != nil {
		if t.less(n.idx, idx) {
			sum += uint64(t.size(n.idx)) + nodeBytes(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return sum
}

// Len returns the number of indices currently held.
func (t *ostree) Len() int { return t.n }

// NextVictim returns the most evictable index (ranked last), for
// eviction-driven callers such as MiniSim.
func (t *ostree) NextVictim() (int32, bool) {
	n := t.root
	if n == nil {
		return 0, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.idx, true
}

// TotalBytes returns the sum of sizes of every index held.
func (t *ostree) TotalBytes() uint64 {
	return nodeBytes(t.root)
}
