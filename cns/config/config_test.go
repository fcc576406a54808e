package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/synapticforge/cns/cns/reactions"
)

const sampleYAML = `
defaultConcurrency: 2
autoCleanupContexts: true
maxHops: 100
neurons:
  - name: ingest
    outputs: [ingest.out]
    dendrites:
      - collateral: ingest.in
        reaction: echo
  - name: shout
    outputs: [shout.out]
    dendrites:
      - collateral: ingest.out
        reaction: uppercase
  - name: counter
    outputs: [counter.out]
    maxConcurrency: 1
    dendrites:
      - collateral: shout.out
        reaction: count
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "network.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadParsesNetworkDocument(t *testing.T) {
	path := writeSample(t)
	net, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if net.DefaultConcurrency != 2 || !net.AutoCleanupContexts || net.MaxHops != 100 {
		t.Fatalf("top-level fields not parsed: %+v", net)
	}
	if len(net.Neurons) != 3 {
		t.Fatalf("got %d neurons, want 3", len(net.Neurons))
	}
}

func TestLoadRejectsEmptyNetwork(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("neurons: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load of an empty neuron list: err = nil, want an error")
	}
}

func TestBuildNeuronsWiresRegisteredReactions(t *testing.T) {
	path := writeSample(t)
	net, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	neurons, err := net.BuildNeurons(reactions.Default())
	if err != nil {
		t.Fatalf("BuildNeurons: %v", err)
	}
	if len(neurons) != 3 {
		t.Fatalf("got %d neurons, want 3", len(neurons))
	}
	for _, n := range neurons {
		if n.Name() == "counter" {
			if k, ok := n.MaxConcurrency(); !ok || k != 1 {
				t.Fatalf("counter MaxConcurrency = (%d, %v), want (1, true)", k, ok)
			}
		}
	}
}

func TestBuildNeuronsRejectsUnknownReaction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := "neurons:\n  - name: n\n    dendrites:\n      - collateral: in\n        reaction: does-not-exist\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	net, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := net.BuildNeurons(reactions.Default()); err == nil {
		t.Fatalf("BuildNeurons with an unknown reaction name: err = nil, want an error")
	}
}
