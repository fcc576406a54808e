package stimulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/synapticforge/cns/glia"
	"github.com/synapticforge/cns/network"
	"github.com/synapticforge/cns/neuron"
	"github.com/synapticforge/cns/signal"
)

// scheduler is the engine of one Stimulation: a mutex-protected FIFO queue
// of pending activations, drained by a trampoline pump loop (§4.4) that
// processes a task inline — same goroutine, loop continues — whenever its
// permits are immediately free, and hands it off to a freshly spawned
// goroutine (which blocks for a permit, runs the task, then re-enters the
// pump loop itself) otherwise. Any number of these goroutines cooperate
// over the one shared queue; none of them ever recurses into a reaction's
// own children, which is what keeps a long synchronous chain from growing
// the native call stack.
type scheduler struct {
	id    string
	net   *network.Network
	sems  *SemaphoreSet
	abort context.Context

	globalListeners *ListenerRegistry
	perCallListener Listener

	maxHops     int
	stimConc    semaphore
	autoCleanup bool
	nameAllowed func(string) bool

	store *glia.Store

	mu              sync.Mutex
	queue           []queuedActivation
	inFlight        int
	activeBySCC     map[int]int
	queuedBySCC     map[int]int
	failedTasks     []FailedTask
	allTasks        []ActivationTask
	hopErr          error
	firstErr        error
	err             error
	abortedWithWork bool

	closeOnce sync.Once
	done      chan struct{}
}

const defaultMaxHops = 10000

func newScheduler(net *network.Network, sems *SemaphoreSet, globalListeners *ListenerRegistry, opts Options, defaultConcurrency int, defaultAutoCleanup bool) *scheduler {
	id := opts.StimulationID
	if id == "" {
		id = uuid.NewString()
	}
	abort := opts.AbortSignal
	if abort == nil {
		abort = context.Background()
	}
	maxHops := opts.MaxHops
	if maxHops <= 0 {
		maxHops = defaultMaxHops
	}
	conc := opts.Concurrency
	if conc <= 0 {
		conc = defaultConcurrency
	}
	autoCleanup := opts.AutoCleanupContexts
	if !autoCleanup {
		autoCleanup = defaultAutoCleanup
	}

	return &scheduler{
		id:              id,
		net:             net,
		sems:            sems,
		abort:           abort,
		globalListeners: globalListeners,
		perCallListener: opts.OnResponse,
		maxHops:         maxHops,
		stimConc:        newSemaphore(conc),
		autoCleanup:     autoCleanup,
		nameAllowed:     opts.NameAllowed,
		store:           glia.NewStore(opts.ContextValues),
		activeBySCC:     make(map[int]int),
		queuedBySCC:     make(map[int]int),
		done:            make(chan struct{}),
	}
}

func (s *scheduler) handle() *Handle {
	return &Handle{s: s}
}

// enqueueLocked appends an activation and records its SCC as holding one
// more queued task. Caller must hold s.mu.
func (s *scheduler) enqueueLocked(qa queuedActivation) {
	s.queue = append(s.queue, qa)
	s.allTasks = append(s.allTasks, qa.task)
	if idx, ok := s.net.SCCIndexOf(qa.task.NeuronName); ok {
		s.queuedBySCC[idx]++
	}
}

// seedFromSignals looks up each signal's subscribers and enqueues one
// activation per subscriber at hop 1, first emitting a synthetic hop-0
// response record for the root signal itself (spec.md §6 "Root record").
func (s *scheduler) seedFromSignals(signals []signal.Signal) {
	for _, sig := range signals {
		sigCopy := sig
		root := ResponseRecord{
			StimulationID: s.id,
			HopIndex:      0,
			NeuronName:    "",
			OutputSignal:  &sigCopy,
		}
		s.fanOut([]ResponseRecord{root})

		subs := s.net.Subscribers(sig.CollateralName)
		s.mu.Lock()
		for _, sub := range subs {
			s.enqueueLocked(queuedActivation{
				task: ActivationTask{
					StimulationID:       s.id,
					NeuronName:          sub.NeuronName,
					InputCollateralName: sig.CollateralName,
					InputSignal:         sig,
				},
				hop: 1,
			})
		}
		s.mu.Unlock()
	}
}

// seedFromTasks enqueues a caller-supplied task list directly (spec.md
// §4.10 "Retry via Activate"). Resumed tasks have no prior hop count to
// recover, so they all start at hop 1 — the same as a task produced
// directly from a root signal's own subscribers.
func (s *scheduler) seedFromTasks(tasks []ActivationTask) {
	s.mu.Lock()
	for _, t := range tasks {
		s.enqueueLocked(queuedActivation{task: t, hop: 1})
	}
	s.mu.Unlock()
}

// fanOut invokes every currently registered listener (global plus this
// call's own, if any) against every record, concurrently, and waits for
// all of them to finish. It uses a plain errgroup.Group — not
// WithContext — because one listener's error must never cancel or skip
// its siblings; every listener always sees every record regardless of
// what any other listener returns. A rejecting listener latches the
// stimulation's failure (§4.9/§7 kind 3), same as a reaction error.
func (s *scheduler) fanOut(records []ResponseRecord) {
	listeners := s.globalListeners.Snapshot()
	if s.perCallListener != nil {
		listeners = append(listeners, s.perCallListener)
	}
	if len(listeners) == 0 {
		return
	}
	var g errgroup.Group
	for _, rec := range records {
		rec := rec
		for _, l := range listeners {
			l := l
			g.Go(func() error {
				return l(rec)
			})
		}
	}
	s.latchErr(g.Wait())
}

// pump drains the shared queue. It returns whenever the queue is empty or
// every task it dequeues is instead handed off to a spawned goroutine; it
// never blocks waiting for a permit itself, which is what lets the very
// first call to pump (made synchronously from Engine.Stimulate/Activate)
// resolve a fully synchronous reaction graph inline before returning,
// satisfying the eagerness requirement of §4.4.
func (s *scheduler) pump() {
	for {
		s.mu.Lock()
		if s.abort.Err() != nil && len(s.queue) > 0 {
			s.drainOnAbortLocked()
			s.mu.Unlock()
			s.tryComplete()
			return
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			s.tryComplete()
			return
		}
		qa := s.queue[0]
		s.queue = s.queue[1:]
		if idx, ok := s.net.SCCIndexOf(qa.task.NeuronName); ok {
			s.queuedBySCC[idx]--
		}
		s.mu.Unlock()

		neuronSem := s.sems.semaphoreFor(qa.task.NeuronName)
		if s.stimConc.tryAcquire() {
			if neuronSem.tryAcquire() {
				s.process(qa)
				s.stimConc.release()
				neuronSem.release()
				continue
			}
			s.stimConc.release()
		}

		// A handed-off task counts as in flight until its goroutine is
		// done, so tryComplete cannot settle the Handle before it runs.
		qaCopy := qa
		s.mu.Lock()
		s.inFlight++
		s.mu.Unlock()
		go func() {
			s.runBlocking(qaCopy)
			s.mu.Lock()
			s.inFlight--
			s.mu.Unlock()
			s.tryComplete()
		}()
	}
}

// drainOnAbortLocked moves every still-queued activation into the failed
// task log once an abort has been observed, rather than dispatching it.
// Caller must hold s.mu.
func (s *scheduler) drainOnAbortLocked() {
	cause := s.abort.Err()
	if len(s.queue) > 0 {
		s.abortedWithWork = true
	}
	for _, qa := range s.queue {
		if idx, ok := s.net.SCCIndexOf(qa.task.NeuronName); ok {
			s.queuedBySCC[idx]--
		}
		s.failedTasks = append(s.failedTasks, FailedTask{
			Task:   qa.task,
			Reason: &ErrAborted{StimulationID: s.id, Cause: cause},
		})
	}
	s.queue = nil
}

// runBlocking is what a hand-off task runs on: it blocks for both permits
// (or for the abort signal to fire first), runs the task, releases, and
// then re-enters the pump loop itself so this goroutine keeps draining the
// shared queue rather than exiting after one task.
func (s *scheduler) runBlocking(qa queuedActivation) {
	if err := s.stimConc.acquire(s.abort); err != nil {
		s.markAbortedWithWork()
		s.recordFailure(qa.task, &ErrAborted{StimulationID: s.id, Cause: err})
		s.tryComplete()
		return
	}
	neuronSem := s.sems.semaphoreFor(qa.task.NeuronName)
	if err := neuronSem.acquire(s.abort); err != nil {
		s.stimConc.release()
		s.markAbortedWithWork()
		s.recordFailure(qa.task, &ErrAborted{StimulationID: s.id, Cause: err})
		s.tryComplete()
		return
	}

	s.process(qa)
	s.stimConc.release()
	neuronSem.release()
	s.pump()
}

// process runs exactly one activation's reaction to completion: lookup,
// hop-limit check, invocation, output validation, response fan-out, and
// enqueueing of whatever the reaction emitted.
func (s *scheduler) process(qa queuedActivation) {
	idx, _ := s.net.SCCIndexOf(qa.task.NeuronName)
	s.mu.Lock()
	s.inFlight++
	s.activeBySCC[idx]++
	s.mu.Unlock()

	defer s.finish(idx)

	task := qa.task

	if s.nameAllowed != nil && !s.nameAllowed(task.NeuronName) {
		// spec.md §4.5 step 2: a name-filtered task is dropped outright,
		// not recorded as a failure — it must never show up in
		// GetFailedTasks() for a caller to mistakenly resume.
		return
	}
	nr, ok := s.net.Neuron(task.NeuronName)
	if !ok {
		s.recordFailure(task, &ErrUnknownNeuron{NeuronName: task.NeuronName})
		return
	}
	var dendrite *neuron.Dendrite
	for _, d := range nr.Dendrites() {
		if d.InputCollateralName == task.InputCollateralName {
			dc := d
			dendrite = &dc
			break
		}
	}
	if dendrite == nil {
		s.recordFailure(task, fmt.Errorf("stimulation: neuron %q has no dendrite bound to collateral %q", task.NeuronName, task.InputCollateralName))
		return
	}
	if qa.hop > s.maxHops {
		s.setHopLimitErr()
		s.recordFailure(task, &ErrHopLimitExceeded{StimulationID: s.id, MaxHops: s.maxHops})
		return
	}

	ctxHandle := s.store.HandleFor(task.NeuronName)
	start := time.Now()
	outputs, reactionErr := dendrite.Reaction(s.abort, task.InputSignal.Payload, nr.Axon(), ctxHandle)
	duration := time.Since(start)

	if reactionErr == nil {
		reactionErr = neuron.ValidateOutputs(task.NeuronName, outputs)
	}
	if reactionErr != nil {
		s.recordFailure(task, reactionErr)
		s.emit(qa, nil, duration, reactionErr)
		return
	}

	s.emit(qa, outputs, duration, nil)
}

// emit builds this hop's response record(s), computes QueueLength as the
// length the shared queue will have once this hop's children are pushed
// (without pushing them yet), runs the full observer fan-out, and only
// once every observer has settled does it actually push the children onto
// the queue. That ordering — precompute, observe, then enqueue — is what
// makes a subscriber's activation visible to other pump-loop goroutines
// strictly after every observer for the producing hop has returned, even
// though those goroutines are genuinely running concurrently on one
// shared queue.
func (s *scheduler) emit(qa queuedActivation, outputs []signal.Signal, duration time.Duration, reactionErr error) {
	task := qa.task
	var records []ResponseRecord
	var children []queuedActivation

	switch {
	case reactionErr != nil:
		records = append(records, ResponseRecord{
			StimulationID: s.id, HopIndex: qa.hop, NeuronName: task.NeuronName,
			InputCollateralName: task.InputCollateralName, InputSignal: task.InputSignal,
			Duration: duration, Error: reactionErr,
		})
	case len(outputs) == 0:
		records = append(records, ResponseRecord{
			StimulationID: s.id, HopIndex: qa.hop, NeuronName: task.NeuronName,
			InputCollateralName: task.InputCollateralName, InputSignal: task.InputSignal,
			Duration: duration,
		})
	default:
		for _, out := range outputs {
			outCopy := out
			records = append(records, ResponseRecord{
				StimulationID: s.id, HopIndex: qa.hop, NeuronName: task.NeuronName,
				InputCollateralName: task.InputCollateralName, InputSignal: task.InputSignal,
				OutputSignal: &outCopy, Duration: duration,
			})
			for _, sub := range s.net.Subscribers(out.CollateralName) {
				children = append(children, queuedActivation{
					task: ActivationTask{
						StimulationID:       s.id,
						NeuronName:          sub.NeuronName,
						InputCollateralName: out.CollateralName,
						InputSignal:         out,
					},
					hop: qa.hop + 1,
				})
			}
		}
	}

	s.mu.Lock()
	queueLength := len(s.queue) + len(children)
	s.mu.Unlock()
	for i := range records {
		records[i].QueueLength = queueLength
	}

	s.fanOut(records)

	if len(children) > 0 {
		s.mu.Lock()
		for _, c := range children {
			s.enqueueLocked(c)
		}
		s.mu.Unlock()
	}
}

func (s *scheduler) finish(idx int) {
	s.mu.Lock()
	if s.abort.Err() != nil {
		// The abort fired while this task was in flight.
		s.abortedWithWork = true
	}
	s.inFlight--
	s.activeBySCC[idx]--
	activeSnap := copyIntMap(s.activeBySCC)
	queuedSnap := copyIntMap(s.queuedBySCC)
	s.mu.Unlock()

	if s.autoCleanup {
		s.store.Sweep(s.net, activeSnap, queuedSnap)
	}
	s.tryComplete()
}

func (s *scheduler) setHopLimitErr() {
	s.mu.Lock()
	if s.hopErr == nil {
		s.hopErr = &ErrHopLimitExceeded{StimulationID: s.id, MaxHops: s.maxHops}
	}
	s.mu.Unlock()
}

func (s *scheduler) markAbortedWithWork() {
	s.mu.Lock()
	s.abortedWithWork = true
	s.mu.Unlock()
}

func (s *scheduler) recordFailure(task ActivationTask, err error) {
	s.mu.Lock()
	s.failedTasks = append(s.failedTasks, FailedTask{Task: task, Reason: err})
	s.mu.Unlock()
	s.latchErr(err)
}

// latchErr records the first non-nil error seen by this stimulation,
// whether from a reaction, a lookup failure, or a rejecting observer
// (§7 kind 2/3: "the stimulation as a whole rejects with the first such
// error"). Later errors are still logged (as FailedTasks or simply
// observed by other listeners) but never displace the first one.
func (s *scheduler) latchErr(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	s.mu.Unlock()
}

// tryComplete checks, under the queue's own lock, whether the
// stimulation has reached quiescence (no in-flight work, nothing queued)
// and if so resolves the Handle exactly once: abort takes precedence over
// a hop-limit rejection, which takes precedence over the first plain
// reaction/observer error, which takes precedence over a clean completion.
func (s *scheduler) tryComplete() {
	s.mu.Lock()
	done := s.inFlight == 0 && len(s.queue) == 0
	var finalErr error
	if done {
		switch {
		case s.abortedWithWork:
			finalErr = &ErrAborted{StimulationID: s.id, Cause: s.abort.Err()}
		case s.hopErr != nil:
			finalErr = s.hopErr
		case s.firstErr != nil:
			finalErr = s.firstErr
		}
	}
	s.mu.Unlock()

	if done {
		s.complete(finalErr)
	}
}

func (s *scheduler) complete(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}

func copyIntMap(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Stimulate starts a new scheduler run seeded from root signals (spec.md
// §4 "Stimulate"). The returned Handle is valid immediately; for a fully
// synchronous reaction graph it is already resolved by the time this
// function returns, since the first pump() pass runs inline in the
// caller's own goroutine.
func Stimulate(net *network.Network, sems *SemaphoreSet, listeners *ListenerRegistry, signals []signal.Signal, opts Options, defaultConcurrency int, defaultAutoCleanup bool) *Handle {
	s := newScheduler(net, sems, listeners, opts, defaultConcurrency, defaultAutoCleanup)
	s.seedFromSignals(signals)
	s.pump()
	return s.handle()
}

// Activate resumes or seeds a scheduler run directly from an explicit task
// list (spec.md §4.10 "Retry via Activate"), bypassing root-signal
// subscriber lookup.
func Activate(net *network.Network, sems *SemaphoreSet, listeners *ListenerRegistry, tasks []ActivationTask, opts Options, defaultConcurrency int, defaultAutoCleanup bool) *Handle {
	s := newScheduler(net, sems, listeners, opts, defaultConcurrency, defaultAutoCleanup)
	s.seedFromTasks(tasks)
	s.pump()
	return s.handle()
}
