// Command cnsrun loads a YAML network definition, fires one stimulation
// against it with a signal read from flags, and prints every response
// record as it arrives. It exists to exercise the engine end-to-end from
// data rather than hand-written Go, and follows the teacher corpus's own
// cobra-plus-YAML CLI shape (qubicdb's cmd/qubicdb/main.go).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/synapticforge/cns"
	"github.com/synapticforge/cns/cns/config"
	"github.com/synapticforge/cns/cns/reactions"
	"github.com/synapticforge/cns/signal"
	"github.com/synapticforge/cns/stimulation"
)

func main() {
	var configPath, collateralName, payload string

	root := &cobra.Command{
		Use:   "cnsrun",
		Short: "Fire a stimulation against a network defined in YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, collateralName, payload)
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&configPath, "config", "f", "", "path to YAML network definition (required)")
	root.Flags().StringVar(&collateralName, "collateral", "", "root collateral name to stimulate (required)")
	root.Flags().StringVar(&payload, "payload", "", "string payload for the root signal")
	_ = root.MarkFlagRequired("config")
	_ = root.MarkFlagRequired("collateral")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath, collateralName, payload string) error {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	netCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	neurons, err := netCfg.BuildNeurons(reactions.Default())
	if err != nil {
		return err
	}

	engine, err := cns.New(neurons, cns.Options{
		DefaultConcurrency:  netCfg.DefaultConcurrency,
		AutoCleanupContexts: netCfg.AutoCleanupContexts,
		Logger:              log,
	})
	if err != nil {
		return fmt.Errorf("cnsrun: %w", err)
	}

	unsubscribe := engine.AddResponseListener(func(rec stimulation.ResponseRecord) error {
		switch {
		case rec.Error != nil:
			log.Warn("response", "hop", rec.HopIndex, "neuron", rec.NeuronName, "error", rec.Error)
		case rec.OutputSignal != nil:
			log.Info("response", "hop", rec.HopIndex, "neuron", rec.NeuronName,
				"collateral", rec.OutputSignal.CollateralName, "payload", rec.OutputSignal.Payload,
				"queueLength", rec.QueueLength, "duration", rec.Duration)
		default:
			log.Info("response", "hop", rec.HopIndex, "neuron", rec.NeuronName, "output", "none")
		}
		return nil
	})
	defer unsubscribe()

	root := signal.UntypedNew(collateralName).Make(payload)

	opts := stimulation.Options{MaxHops: netCfg.MaxHops}
	handle := engine.Stimulate([]signal.Signal{root}, opts)

	if err := handle.WaitUntilComplete(); err != nil {
		log.Error("stimulation failed", "error", err)
		for _, ft := range handle.GetFailedTasks() {
			log.Error("failed task", "neuron", ft.Task.NeuronName, "reason", ft.Reason)
		}
		return err
	}

	log.Info("stimulation complete", "id", handle.StimulationID())
	time.Sleep(10 * time.Millisecond) // let the engine's own async completion log line land before exit
	return nil
}
