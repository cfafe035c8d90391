package ir

import (
	"fmt"
	"strings"

	"github.com/finch-opt/finch/utils"
	"github.com/finch-opt/finch/utils/dot"

	uf "github.com/spakin/disjoint"
)

var opts = utils.Opts()

// Visualize creates a dot graph representing the control-flow graph of
// a method. Blocks belonging to the same straight-line chain (linked
// by edges that are the only exit of their source and the only entry
// of their target) are grouped into one cluster.
func Visualize(m *Method) *dot.DotGraph {
	G := &dot.DotGraph{
		Title: m.Show(),
		Options: map[string]string{
			"minlen":  fmt.Sprint(opts.Minlen()),
			"nodesep": fmt.Sprint(opts.Nodesep()),
			"rankdir": "TB",
		},
	}

	blocks := m.Code().Blocks()

	// Union-find over blocks to discover chains.
	elems := make(map[*Block]*uf.Element, len(blocks))
	for _, b := range blocks {
		e := uf.NewElement()
		e.Data = b
		elems[b] = e
	}
	for _, b := range blocks {
		if len(b.Succs()) != 1 {
			continue
		}
		succ := b.Succs()[0]
		if len(succ.Preds()) == 1 {
			uf.Union(elems[b], elems[succ])
		}
	}

	chainSize := make(map[*uf.Element]int)
	for _, b := range blocks {
		chainSize[elems[b].Find()]++
	}

	nodes := make(map[*Block]*dot.DotNode, len(blocks))
	clusters := make(map[*uf.Element]*dot.DotCluster)
	for _, b := range blocks {
		node := &dot.DotNode{
			ID: fmt.Sprintf("b%d", b.ID()),
			Attrs: dot.DotAttrs{
				"label": blockLabelText(b),
			},
		}
		nodes[b] = node

		root := elems[b].Find()
		if chainSize[root] == 1 {
			// Singleton chains stay at the top level.
			G.Nodes = append(G.Nodes, node)
			continue
		}
		cluster, ok := clusters[root]
		if !ok {
			cluster = dot.NewDotCluster(fmt.Sprintf("chain%d", root.Data.(*Block).ID()))
			cluster.Attrs["style"] = "dashed"
			clusters[root] = cluster
			G.Clusters = append(G.Clusters, cluster)
		}
		cluster.Nodes = append(cluster.Nodes, node)
	}

	for _, b := range blocks {
		for _, succ := range b.Succs() {
			attrs := dot.DotAttrs{}
			if branchTargets(b, succ) {
				attrs["style"] = "dashed"
			}
			G.Edges = append(G.Edges, &dot.DotEdge{
				From:  nodes[b],
				To:    nodes[succ],
				Attrs: attrs,
			})
		}
	}

	return G
}

func blockLabelText(b *Block) string {
	lines := []string{fmt.Sprintf("b%d", b.ID())}
	for _, insn := range b.Instructions() {
		lines = append(lines, insn.String())
	}
	return strings.Join(lines, "\\l") + "\\l"
}

// branchTargets checks whether the edge from b to succ is taken via an
// explicit branch rather than fallthrough.
func branchTargets(b *Block, succ *Block) bool {
	if n := len(b.Instructions()); n > 0 {
		last := b.Instructions()[n-1]
		return last.Target() == succ
	}
	return false
}
