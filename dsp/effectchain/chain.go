package effectchain

import (
	"errors"
	"fmt"
)

// ErrUnknownEffect is returned when a node references an unregistered effect type.
var ErrUnknownEffect = errors.New("unknown effect type")

type nodeRuntime struct {
	id         string
	effectType string
	bypassed   bool
	runtime    Runtime
}

// Chain runs a serial list of effect nodes over channel-major blocks.
// Runtimes are kept across Load calls for nodes whose ID and type are
// unchanged, so their processing state survives parameter edits.
type Chain struct {
	ctx      Context
	registry *Registry

	nodes []*nodeRuntime
	specs []Params
}

// New creates a Chain with the given context and registry.
func New(ctx Context, registry *Registry) *Chain {
	return &Chain{
		ctx:      ctx,
		registry: registry,
	}
}

// Context returns the current chain context.
func (c *Chain) Context() Context {
	return c.ctx
}

// SetContext updates the chain context (e.g., after a sample rate change)
// and reconfigures every node.
func (c *Chain) SetContext(ctx Context) error {
	c.ctx = ctx

	for i, n := range c.nodes {
		err := n.runtime.Configure(ctx, c.specs[i])
		if err != nil {
			return fmt.Errorf("effectchain: configure node %q (%s): %w", n.id, n.effectType, err)
		}
	}

	return nil
}

// Load replaces the node list. Nodes without an ID get "<type>-<index>".
// On error the previous node list stays active with its previous parameters.
//
// New runtimes are created and configured first. Reused runtimes are only
// reconfigured once nothing else can fail, and are restored from the previous
// parameters if one of them rejects its new ones.
func (c *Chain) Load(specs []Params) error {
	existing := make(map[string]int, len(c.nodes))
	for i, n := range c.nodes {
		existing[n.id] = i
	}

	nodes := make([]*nodeRuntime, len(specs))
	normalized := make([]Params, len(specs))
	reused := make([]int, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))

	for i, spec := range specs {
		if spec.ID == "" {
			spec.ID = fmt.Sprintf("%s-%d", spec.Type, i)
		}

		if _, dup := seen[spec.ID]; dup {
			return fmt.Errorf("effectchain: duplicate node id %q", spec.ID)
		}

		seen[spec.ID] = struct{}{}
		normalized[i] = spec

		if j, ok := existing[spec.ID]; ok && c.nodes[j].effectType == spec.Type {
			nodes[i] = c.nodes[j]
			reused = append(reused, i)

			continue
		}

		runtime, err := c.newRuntime(spec.Type)
		if err != nil {
			return err
		}

		err = runtime.Configure(c.ctx, spec)
		if err != nil {
			return fmt.Errorf("effectchain: configure node %q (%s): %w", spec.ID, spec.Type, err)
		}

		nodes[i] = &nodeRuntime{id: spec.ID, effectType: spec.Type, runtime: runtime}
	}

	for k, i := range reused {
		err := nodes[i].runtime.Configure(c.ctx, normalized[i])
		if err != nil {
			c.restore(nodes, reused[:k])
			return fmt.Errorf("effectchain: configure node %q (%s): %w", normalized[i].ID, normalized[i].Type, err)
		}
	}

	for i, n := range nodes {
		n.bypassed = normalized[i].Bypassed
	}

	c.nodes = nodes
	c.specs = normalized

	return nil
}

// restore re-applies the active parameters to reused runtimes that were
// already reconfigured by a failing Load.
func (c *Chain) restore(nodes []*nodeRuntime, indices []int) {
	for _, i := range indices {
		for j, old := range c.nodes {
			if old == nodes[i] {
				_ = old.runtime.Configure(c.ctx, c.specs[j])
				break
			}
		}
	}
}

// Process applies every non-bypassed node to block in place, in order.
func (c *Chain) Process(block []float64) error {
	if len(block) == 0 {
		return nil
	}

	if _, ok := c.ctx.frames(block); !ok {
		return fmt.Errorf("effectchain: block of %d samples is not a multiple of %d channels", len(block), c.ctx.Channels)
	}

	for _, n := range c.nodes {
		if n.bypassed {
			continue
		}

		err := n.runtime.Process(block)
		if err != nil {
			return fmt.Errorf("effectchain: node %q (%s): %w", n.id, n.effectType, err)
		}
	}

	return nil
}

// Latency returns the summed delay of all active nodes that report one.
func (c *Chain) Latency() int {
	total := 0

	for _, n := range c.nodes {
		if n.bypassed {
			continue
		}

		if lr, ok := n.runtime.(LatencyReporter); ok {
			total += lr.Latency()
		}
	}

	return total
}

// Reset clears the processing state of every node that supports it.
func (c *Chain) Reset() {
	for _, n := range c.nodes {
		if r, ok := n.runtime.(Resetter); ok {
			r.Reset()
		}
	}
}

// Len returns the number of loaded nodes.
func (c *Chain) Len() int {
	return len(c.nodes)
}

// NodeRuntime returns the Runtime for the given node ID, or nil.
func (c *Chain) NodeRuntime(nodeID string) Runtime {
	for _, n := range c.nodes {
		if n.id == nodeID {
			return n.runtime
		}
	}

	return nil
}

func (c *Chain) newRuntime(effectType string) (Runtime, error) {
	factory, ok := c.registry.Lookup(effectType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	return factory(c.ctx)
}
