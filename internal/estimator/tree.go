package estimator

import (
	"math/rand"
	"sort"
)

// leaf marks a node without children
const leaf = -1

// Node is one entry of a flattened regression tree. Internal nodes send
// rows with x[Feature] <= Threshold to Left.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// RegressionTree is a CART tree minimizing squared error
type RegressionTree struct {
	Nodes []Node `json:"nodes"`
}

// treeParams bounds the growth of a single tree
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
}

// treeBuilder grows a tree over column-major data
type treeBuilder struct {
	cols   [][]float64
	y      []float64
	params treeParams
	rng    *rand.Rand
	nodes  []Node
}

// buildTree grows a tree from the rows listed in idx (duplicates allowed, as
// produced by bootstrap sampling)
func buildTree(cols [][]float64, y []float64, idx []int, params treeParams, rng *rand.Rand) *RegressionTree {
	b := &treeBuilder{cols: cols, y: y, params: params, rng: rng}
	b.grow(idx, 0)
	return &RegressionTree{Nodes: b.nodes}
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	pos := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leaf, Value: b.mean(idx)})

	if len(idx) < b.params.minSamplesSplit || (b.params.maxDepth > 0 && depth >= b.params.maxDepth) {
		return pos
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if b.cols[feature][i] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[pos].Feature = feature
	b.nodes[pos].Threshold = threshold
	b.nodes[pos].Left = l
	b.nodes[pos].Right = r
	return pos
}

func (b *treeBuilder) mean(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	return sum / float64(len(idx))
}

// candidateFeatures returns the features considered at one node
func (b *treeBuilder) candidateFeatures() []int {
	p := len(b.cols)
	if b.params.maxFeatures <= 0 || b.params.maxFeatures >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return b.rng.Perm(p)[:b.params.maxFeatures]
}

// bestSplit finds the split with the largest reduction in squared error.
// It reports false when no split separates the rows.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	n := float64(len(idx))
	var total float64
	for _, i := range idx {
		total += b.y[i]
	}

	bestFeature, bestThreshold := -1, 0.0
	// maximizing sumL^2/nL + sumR^2/nR is equivalent to minimizing SSE
	bestScore := total * total / n
	const eps = 1e-12

	sorted := make([]int, len(idx))
	for _, f := range b.candidateFeatures() {
		col := b.cols[f]
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool { return col[sorted[a]] < col[sorted[c]] })

		var sumLeft float64
		for k := 0; k < len(sorted)-1; k++ {
			sumLeft += b.y[sorted[k]]
			cur, next := col[sorted[k]], col[sorted[k+1]]
			if cur == next {
				continue
			}
			nLeft := float64(k + 1)
			nRight := n - nLeft
			sumRight := total - sumLeft
			score := sumLeft*sumLeft/nLeft + sumRight*sumRight/nRight
			if score > bestScore+eps {
				bestScore = score
				bestFeature = f
				bestThreshold = cur + (next-cur)/2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// predictRow walks the tree for one row
func (t *RegressionTree) predictRow(row func(feature int) float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	pos := 0
	for {
		node := t.Nodes[pos]
		if node.Feature == leaf {
			return node.Value
		}
		if row(node.Feature) <= node.Threshold {
			pos = node.Left
		} else {
			pos = node.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path
func (t *RegressionTree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(pos int) int
	walk = func(pos int) int {
		node := t.Nodes[pos]
		if node.Feature == leaf {
			return 0
		}
		l, r := walk(node.Left), walk(node.Right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}
