package stage

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNodeNotFound is returned when removing a node that is not in the graph.
var ErrNodeNotFound = errors.New("render graph node not found")

// NodeLabel keys a node in the render graph. Labels must be comparable.
type NodeLabel any

// Node is one unit of render graph work. Update runs for every node before
// any node executes, Run records commands into the frame encoder.
type Node interface {
	Update() error
	Run(encoder *wgpu.CommandEncoder) error
}

type cameraDriverLabel struct{}

// CameraDriverLabel is the node slot driving the cameras of the host
// renderer. Nodes order themselves relative to it.
var CameraDriverLabel NodeLabel = cameraDriverLabel{}

// RenderGraph owns the render nodes and their execution order edges.
type RenderGraph struct {
	nodes map[NodeLabel]Node
	edges map[NodeLabel][]NodeLabel
}

func NewRenderGraph() *RenderGraph {
	return &RenderGraph{
		nodes: map[NodeLabel]Node{},
		edges: map[NodeLabel][]NodeLabel{},
	}
}

func (g *RenderGraph) AddNode(label NodeLabel, node Node) {
	g.nodes[label] = node
}

// AddEdge requires `before` to execute ahead of `after`.
func (g *RenderGraph) AddEdge(before, after NodeLabel) {
	g.edges[before] = append(g.edges[before], after)
}

func (g *RenderGraph) RemoveNode(label NodeLabel) error {
	if _, ok := g.nodes[label]; !ok {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, label)
	}

	delete(g.nodes, label)
	delete(g.edges, label)

	for from, tos := range g.edges {
		filtered := tos[:0]
		for _, to := range tos {
			if to != label {
				filtered = append(filtered, to)
			}
		}
		g.edges[from] = filtered
	}

	return nil
}

func (g *RenderGraph) Has(label NodeLabel) bool {
	_, ok := g.nodes[label]
	return ok
}

func (g *RenderGraph) Len() int {
	return len(g.nodes)
}

// Run updates every node and executes them in topological edge order.
func (g *RenderGraph) Run(encoder *wgpu.CommandEncoder) error {
	order, err := g.sort()
	if err != nil {
		return err
	}

	for _, label := range order {
		if err := g.nodes[label].Update(); err != nil {
			return fmt.Errorf("update node %v: %w", label, err)
		}
	}

	for _, label := range order {
		if err := g.nodes[label].Run(encoder); err != nil {
			return fmt.Errorf("run node %v: %w", label, err)
		}
	}

	return nil
}

// sort returns the nodes in an order satisfying all edges between nodes that
// are present. Edges touching absent nodes are ignored.
func (g *RenderGraph) sort() ([]NodeLabel, error) {
	indegree := map[NodeLabel]int{}
	for label := range g.nodes {
		indegree[label] = 0
	}

	for from, tos := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			continue
		}
		for _, to := range tos {
			if _, ok := g.nodes[to]; ok {
				indegree[to]++
			}
		}
	}

	var ready []NodeLabel
	for label, deg := range indegree {
		if deg == 0 {
			ready = append(ready, label)
		}
	}

	var order []NodeLabel
	for len(ready) > 0 {
		label := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		order = append(order, label)

		for _, to := range g.edges[label] {
			if _, ok := g.nodes[to]; !ok {
				continue
			}

			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, errors.New("render graph contains a cycle")
	}

	return order, nil
}
