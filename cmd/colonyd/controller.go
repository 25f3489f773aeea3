package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"hivemind/internal/adapter/journal"
	metricsinmem "hivemind/internal/adapter/metrics/inmemory"
	worldruntime "hivemind/internal/adapter/world/runtime"
	"hivemind/internal/adapter/world/scenario"
	"hivemind/internal/app/agent"
	"hivemind/internal/app/assign"
	"hivemind/internal/app/classify"
	"hivemind/internal/app/dependent"
	"hivemind/internal/app/jobqueue"
	"hivemind/internal/app/replay"
	"hivemind/internal/app/spawn"
	"hivemind/internal/app/status"
	"hivemind/internal/app/tick"
	"hivemind/internal/config"
)

// controller is one wired controller instance over a scenario world.
type controller struct {
	world   *scenario.World
	tick    tick.UseCase
	stores  stores
	journal *journal.Writer
	reader  journal.Reader
	metrics *metricsinmem.Recorder
	log     logrus.FieldLogger
}

func buildController(ctx context.Context, opts *rootOptions, log logrus.FieldLogger) (*controller, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.journalDir != "" {
		cfg.Journal.Dir = opts.journalDir
	}

	doc, err := scenario.Load(opts.scenarioPath)
	if err != nil {
		return nil, err
	}
	w := scenario.NewWorld(doc)
	if cfg.Username == "" {
		cfg.Username = w.Username()
	}

	st, err := openStores(ctx, opts.migrations, log)
	if err != nil {
		return nil, err
	}

	snapshot := worldruntime.NewProvider(w, cfg.Runtime())
	queue := jobqueue.NewUseCase(snapshot, cfg.JobQueue())
	assigner := assign.NewUseCase(queue, snapshot, cfg.Assign())
	classifier := classify.NewUseCase(snapshot, cfg.Classify())
	recorder := metricsinmem.NewRecorder()
	writer := journal.NewWriter(cfg.Journal.Dir, cfg.Journal.SegmentTicks)

	c := &controller{
		world:   w,
		stores:  st,
		journal: writer,
		reader:  journal.NewReader(cfg.Journal.Dir),
		metrics: recorder,
		log:     log,
	}
	c.tick = tick.UseCase{
		TxManager: st.tx,
		Colonies:  st.colonies,
		Agents:    st.agents,
		World:     snapshot,
		Classify:  classifier,
		Dependent: dependent.NewUseCase(snapshot, st.markers, classifier, cfg.Dependent()),
		Runner:    agent.NewUseCase(assigner, snapshot, w, log, cfg.Agent()),
		Spawn:     spawn.NewUseCase(assigner, snapshot, cfg.SpawnSettings()),
		Spawner:   w,
		Remover:   w,
		Metrics:   recorder,
		Journal:   writer,
		Log:       log,
	}
	log.WithFields(logrus.Fields{
		"scenario": opts.scenarioPath,
		"username": cfg.Username,
		"store":    st.kind,
		"journal":  cfg.Journal.Dir,
	}).Info("controller ready")
	return c, nil
}

// step advances the world and runs one controller tick on it.
func (c *controller) step(ctx context.Context, n uint64) (tick.Report, error) {
	c.world.Step(n)
	rep, err := c.tick.Run(ctx, n)
	if err != nil {
		return rep, fmt.Errorf("tick %d: %w", n, err)
	}
	c.log.WithFields(logrus.Fields{
		"tick":        n,
		"assignments": rep.Assignments,
		"idle":        rep.Idle,
		"faults":      len(rep.Faults),
	}).Debug("tick done")
	return rep, nil
}

func (c *controller) statusUseCase() status.UseCase {
	return status.UseCase{TxManager: c.stores.tx, Colonies: c.stores.colonies, Agents: c.stores.agents}
}

func (c *controller) replayUseCase() replay.UseCase {
	return replay.UseCase{Journal: c.reader}
}

func (c *controller) Close() error {
	jerr := c.journal.Close()
	serr := c.stores.close()
	if jerr != nil {
		return jerr
	}
	return serr
}
