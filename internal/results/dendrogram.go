// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Node is a node in a dendrogram of classes.
type Node struct {
	// Class is the class of a leaf.
	// It is -1 for internal nodes.
	Class int

	Left, Right *Node

	// Height is the average linkage
	// distance at which the children
	// of the node were joined.
	Height float64

	// Size is the number of leaves
	// below the node.
	Size int
}

// IsLeaf returns whether n is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Leaves returns the classes of the leaves below n in drawing order.
func (n *Node) Leaves() []int {
	if n.IsLeaf() {
		return []int{n.Class}
	}
	return append(n.Left.Leaves(), n.Right.Leaves()...)
}

// Dendrogram returns the average linkage hierarchical clustering of the
// rows of means using Euclidean distance. Each row is the mean vector of
// the class with the same index. Classes with undefined means are
// omitted. Dendrogram returns nil if no class has defined means.
func Dendrogram(means *mat.Dense) *Node {
	if means == nil {
		return nil
	}
	rows, _ := means.Dims()
	var nodes []*Node
	var vecs [][]float64
	for k := 0; k < rows; k++ {
		v := mat.Row(nil, k, means)
		if hasNaN(v) {
			log.Printf("class %d omitted from dendrogram: undefined mean", k)
			continue
		}
		nodes = append(nodes, &Node{Class: k, Size: 1})
		vecs = append(vecs, v)
	}
	if len(nodes) == 0 {
		return nil
	}

	dist := make([][]float64, len(nodes))
	for i := range dist {
		dist[i] = make([]float64, len(nodes))
		for j := range dist[i] {
			dist[i][j] = floats.Distance(vecs[i], vecs[j], 2)
		}
	}

	active := make([]bool, len(nodes))
	for i := range active {
		active[i] = true
	}
	for remain := len(nodes); remain > 1; remain-- {
		a, b := -1, -1
		min := math.Inf(1)
		for i := range nodes {
			if !active[i] {
				continue
			}
			for j := i + 1; j < len(nodes); j++ {
				if active[j] && dist[i][j] < min {
					a, b, min = i, j, dist[i][j]
				}
			}
		}

		na, nb := nodes[a], nodes[b]
		merged := &Node{Class: -1, Left: na, Right: nb, Height: min, Size: na.Size + nb.Size}
		for k := range nodes {
			if !active[k] || k == a || k == b {
				continue
			}
			d := (float64(na.Size)*dist[a][k] + float64(nb.Size)*dist[b][k]) / float64(merged.Size)
			dist[a][k] = d
			dist[k][a] = d
		}
		nodes[a] = merged
		active[b] = false
	}
	for i, ok := range active {
		if ok {
			return nodes[i]
		}
	}
	panic("unreachable")
}

func hasNaN(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}

// WriteNewick writes the dendrogram rooted at n to w in Newick format.
// Branch lengths are the differences in node heights.
func WriteNewick(w io.Writer, n *Node) error {
	if n == nil {
		return fmt.Errorf("empty dendrogram")
	}
	var buf strings.Builder
	writeNewick(&buf, n, n.Height)
	buf.WriteString(";\n")
	_, err := io.WriteString(w, buf.String())
	return err
}

func writeNewick(buf *strings.Builder, n *Node, parent float64) {
	if n.IsLeaf() {
		fmt.Fprintf(buf, "class-%d", n.Class)
	} else {
		buf.WriteByte('(')
		writeNewick(buf, n.Left, n.Height)
		buf.WriteByte(',')
		writeNewick(buf, n.Right, n.Height)
		buf.WriteByte(')')
	}
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatFloat(parent-n.Height, 'g', 6, 64))
}
