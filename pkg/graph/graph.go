// Package graph implements AudioPluginGraph: an ordered chain of nodes
// executed once per audio block, with group resolution and UMP output
// dispatch supplied by the owning track/sequencer through two callbacks.
package graph

import (
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/node"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// MaxEventsPerBlock bounds how many UMP events a single node's input
// sequence accepts in one process call; anything beyond this per node
// per block stays pending for the next block.
const MaxEventsPerBlock = 256

// GroupResolver maps an instance id to its assigned UMP group, or 0xFF
// if the instance has no group assigned yet.
type GroupResolver func(instanceID int32) uint8

// OutputSink receives the output UMP events a node produced during its
// process call. events is only valid for the duration of the call.
type OutputSink func(instanceID int32, events *ump.Sequence)

// Graph is an ordered chain of nodes, each processed against its own
// Context slot; between nodes the previous node's output buffers are
// copied into the next node's input buffers via Context.Advance.
type Graph struct {
	nodes    []*node.Node
	contexts []*process.Context
	resolver GroupResolver
	sink     OutputSink
}

// New returns an empty Graph. resolver and sink may be nil: a nil
// resolver treats every node as group-unassigned (0xFF), and a nil sink
// drops output events silently.
func New(resolver GroupResolver, sink OutputSink) *Graph {
	return &Graph{resolver: resolver, sink: sink}
}

// Append adds n as the last node in the chain, processed against ctx on
// every subsequent Process call. ctx's bus buffers must already be wired
// to the shape the node's instance was configured with.
func (g *Graph) Append(n *node.Node, ctx *process.Context) {
	g.nodes = append(g.nodes, n)
	g.contexts = append(g.contexts, ctx)
}

// Nodes returns the chain in execution order.
func (g *Graph) Nodes() []*node.Node { return g.nodes }

// Len reports the number of nodes in the chain.
func (g *Graph) Len() int { return len(g.nodes) }

// Process runs every node in order, each against its own Context, and
// returns the first non-zero status encountered — further nodes are
// skipped once one fails.
func (g *Graph) Process(frameCount int) hosterr.Status {
	for i, n := range g.nodes {
		ctx := g.contexts[i]
		ctx.FrameCount = frameCount

		n.DrainQueueToPending()

		group := uint8(0xFF)
		if g.resolver != nil {
			group = g.resolver(n.InstanceID)
		}

		ctx.InputUMP.Clear()
		n.FillEventBufferForGroup(ctx.InputUMP, group, MaxEventsPerBlock)

		status := n.Process(ctx)
		if status != hosterr.StatusOK {
			return status
		}

		if ctx.OutputUMP.Len() > 0 {
			if g.sink != nil {
				g.sink(n.InstanceID, ctx.OutputUMP)
			}
			ctx.OutputUMP.Clear()
		}

		if i+1 < len(g.nodes) {
			ctx.Advance(g.contexts[i+1])
		}
	}
	return hosterr.StatusOK
}
