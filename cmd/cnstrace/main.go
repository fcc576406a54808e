// Command cnstrace is a terminal viewer for one stimulation's response
// trace: it runs the same YAML-defined network as cnsrun, but renders
// every ResponseRecord as it arrives in a scrolling, styled Bubble Tea
// view instead of printing log lines. Grounded on the teacher's own
// nested experiments module, whose go.mod already depends on
// charmbracelet/bubbletea and charmbracelet/lipgloss.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/synapticforge/cns"
	"github.com/synapticforge/cns/cns/config"
	"github.com/synapticforge/cns/cns/reactions"
	"github.com/synapticforge/cns/signal"
	"github.com/synapticforge/cns/stimulation"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// recordMsg wraps one response record as a Bubble Tea message, delivered
// from the listener goroutine through a channel the model polls.
type recordMsg stimulation.ResponseRecord

type doneMsg struct{ err error }

type model struct {
	records []stimulation.ResponseRecord
	ch      <-chan tea.Msg
	err     error
	done    bool
}

func waitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m model) Init() tea.Cmd {
	return waitForMsg(m.ch)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case recordMsg:
		m.records = append(m.records, stimulation.ResponseRecord(msg))
		return m, waitForMsg(m.ch)
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, waitForMsg(m.ch)
	}
	return m, nil
}

func (m model) View() string {
	var b []byte
	b = append(b, []byte(headerStyle.Render("cnstrace — stimulation response trace")+"\n\n")...)
	for _, rec := range m.records {
		line := fmt.Sprintf("hop=%-3d neuron=%-16s queue=%-3d ", rec.HopIndex, rec.NeuronName, rec.QueueLength)
		switch {
		case rec.Error != nil:
			line = errStyle.Render(line + "error=" + rec.Error.Error())
		case rec.OutputSignal != nil:
			line = okStyle.Render(line+fmt.Sprintf("collateral=%s payload=%v", rec.OutputSignal.CollateralName, rec.OutputSignal.Payload)) +
				" " + dimStyle.Render(rec.Duration.String())
		default:
			line = dimStyle.Render(line + "(no output)")
		}
		b = append(b, []byte(line+"\n")...)
	}
	if m.done {
		if m.err != nil {
			b = append(b, []byte(errStyle.Render(fmt.Sprintf("\nstimulation finished: %v\n", m.err)))...)
		} else {
			b = append(b, []byte(okStyle.Render("\nstimulation finished\n"))...)
		}
	}
	b = append(b, []byte(dimStyle.Render("\n(q to quit)\n"))...)
	return string(b)
}

func main() {
	var configPath, collateralName, payload string

	root := &cobra.Command{
		Use:   "cnstrace",
		Short: "Trace a stimulation's responses live in a terminal view",
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
	})
	if err != nil {
		return fmt.Errorf("cnstrace: %w", err)
	}

	ch := make(chan tea.Msg, 64)
	unsubscribe := engine.AddResponseListener(func(rec stimulation.ResponseRecord) error {
		ch <- recordMsg(rec)
		return nil
	})
	defer unsubscribe()

	root := signal.UntypedNew(collateralName).Make(payload)
	handle := engine.Stimulate([]signal.Signal{root}, stimulation.Options{MaxHops: netCfg.MaxHops})

	go func() {
		err := handle.WaitUntilComplete()
		ch <- doneMsg{err: err}
	}()

	p := tea.NewProgram(model{ch: ch})
	_, err = p.Run()
	return err
}
