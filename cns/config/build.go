package config

import (
	"fmt"

	"github.com/synapticforge/cns/axon"
	"github.com/synapticforge/cns/cns/reactions"
	"github.com/synapticforge/cns/neuron"
	"github.com/synapticforge/cns/signal"
)

// BuildNeurons turns a parsed Network document into the []neuron.Neuron
// cns.New expects, binding each dendrite's named reaction against reg.
// Every collateral in this codepath is untyped (signal.UntypedCollateral)
// since YAML carries no Go type information — the generic Collateral[T]
// path in package signal is only reachable from hand-written Go.
func (n *Network) BuildNeurons(reg *reactions.Registry) ([]neuron.Neuron, error) {
	out := make([]neuron.Neuron, 0, len(n.Neurons))
	for _, nc := range n.Neurons {
		outputs := make(map[string]signal.UntypedCollateral, len(nc.Outputs))
		for _, name := range nc.Outputs {
			outputs[name] = signal.UntypedNew(name)
		}
		nr := neuron.New(nc.Name, axon.New(outputs))

		if nc.MaxConcurrency > 0 {
			var err error
			nr, err = nr.WithMaxConcurrency(nc.MaxConcurrency)
			if err != nil {
				return nil, fmt.Errorf("config: neuron %q: %w", nc.Name, err)
			}
		}

		for _, dc := range nc.Dendrites {
			outputCollateral := ""
			if len(nc.Outputs) > 0 {
				outputCollateral = nc.Outputs[0]
			}
			reaction, err := reg.Build(dc.Reaction, outputCollateral)
			if err != nil {
				return nil, fmt.Errorf("config: neuron %q: %w", nc.Name, err)
			}
			nr = nr.Bind(neuron.NewDendrite(dc.Collateral, reaction))
		}

		out = append(out, nr)
	}
	return out, nil
}
