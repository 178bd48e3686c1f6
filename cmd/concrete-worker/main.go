// Command concrete-worker runs homomorphic gate evaluation workers. It
// pops gate jobs from a Redis queue, resolves input ciphertexts from
// content-addressed storage, evaluates the gate with a shared evaluation
// key set, and stores the result.
//
// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/AlexanderViand/concrete"
	"github.com/AlexanderViand/concrete/internal/queue"
	"github.com/AlexanderViand/concrete/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		numWorkers  = flag.Int("workers", 4, "number of worker goroutines")
		redisAddr   = flag.String("redis", "localhost:6379", "Redis address")
		redisDB     = flag.Int("redis-db", 0, "Redis database number")
		queueName   = flag.String("queue", "default", "queue name")
		storagePath = flag.String("storage", "/var/lib/concrete/storage", "ciphertext storage path")
		keyPath     = flag.String("keys", "eval.keys", "serialized evaluation key set")
		paramsName  = flag.String("params", "BOOLEAN_128", "parameter set name")
		metricsAddr = flag.String("metrics", ":9090", "metrics server address")
	)
	flag.Parse()

	ps, ok := concrete.GetParameterSet(*paramsName)
	if !ok {
		return fmt.Errorf("unknown parameter set %q", *paramsName)
	}
	params, err := concrete.NewParametersFromLiteral(ps.Literal)
	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	keyData, err := os.ReadFile(*keyPath)
	if err != nil {
		return fmt.Errorf("read evaluation keys: %w", err)
	}
	keys := new(concrete.EvaluationKeySet)
	if err := keys.UnmarshalBinary(keyData); err != nil {
		return fmt.Errorf("unmarshal evaluation keys: %w", err)
	}

	log.Printf("concrete worker starting")
	log.Printf("  params:  %s", ps.Name)
	log.Printf("  workers: %d", *numWorkers)
	log.Printf("  redis:   %s", *redisAddr)
	log.Printf("  storage: %s", *storagePath)
	log.Printf("  metrics: %s", *metricsAddr)

	q, err := queue.NewRedis(queue.RedisConfig{
		Addr: *redisAddr,
		DB:   *redisDB,
	}, *queueName)
	if err != nil {
		return fmt.Errorf("create queue: %w", err)
	}
	defer q.Close()

	store, err := storage.NewDisk(*storagePath)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	pool := &WorkerPool{
		numWorkers: *numWorkers,
		queue:      q,
		store:      store,
		// The Fourier-domain bootstrap key is built once here and shared;
		// each worker gets its own scratch via ShallowCopy.
		eval: concrete.NewEvaluator(params, keys),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "# HELP concrete_gates_total Total gate evaluations\n")
		fmt.Fprintf(w, "# TYPE concrete_gates_total counter\n")
		fmt.Fprintf(w, "concrete_gates_total{status=\"success\"} %d\n", pool.successCount.Load())
		fmt.Fprintf(w, "concrete_gates_total{status=\"failure\"} %d\n", pool.failureCount.Load())
	})

	server := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		log.Printf("metrics server on %s", *metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal: %s", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
	if err := pool.Stop(); err != nil {
		log.Printf("worker pool shutdown error: %v", err)
	}

	log.Println("shutdown complete")
	return nil
}

// WorkerPool manages gate evaluation workers sharing one key set.
type WorkerPool struct {
	numWorkers int
	queue      queue.Queue
	store      storage.Store
	eval       *concrete.Evaluator

	wg           sync.WaitGroup
	cancel       context.CancelFunc
	running      atomic.Bool
	successCount atomic.Int64
	failureCount atomic.Int64
}

// Start launches the workers.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.running.Load() {
		return errors.New("pool already running")
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.running.Store(true)

	log.Printf("starting %d workers", p.numWorkers)
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	return nil
}

// Stop cancels the workers and waits for in-flight jobs.
func (p *WorkerPool) Stop() error {
	if !p.running.Load() {
		return nil
	}
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		return errors.New("shutdown timeout")
	}
	p.running.Store(false)
	return nil
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log.Printf("worker %d started", id)

	// Evaluator scratch is per goroutine.
	eval := p.eval.ShallowCopy()

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker %d stopping", id)
			return
		default:
		}

		job, err := p.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("worker %d: pop: %v", id, err)
			time.Sleep(time.Second)
			continue
		}

		p.processJob(ctx, id, eval, job)
	}
}

// fail records a job failure and bumps the failure counter.
func (p *WorkerPool) fail(ctx context.Context, job *queue.Job, format string, args ...any) {
	job.Status = queue.StatusFailed
	job.Error = fmt.Sprintf(format, args...)
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("job %s: record failure: %v", job.ID, err)
	}
	p.failureCount.Add(1)
}

func (p *WorkerPool) processJob(ctx context.Context, workerID int, eval *concrete.Evaluator, job *queue.Job) {
	log.Printf("worker %d: job %s (%s)", workerID, job.ID, job.Op)

	if err := job.Validate(); err != nil {
		p.fail(ctx, job, "validate: %v", err)
		return
	}

	job.Status = queue.StatusRunning
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("worker %d: update job status: %v", workerID, err)
	}

	inputs := make([]*concrete.LweCiphertext, len(job.Inputs))
	for i, h := range job.Inputs {
		data, err := p.store.Get(ctx, storage.Handle(h))
		if err != nil {
			p.fail(ctx, job, "load input %d: %v", i, err)
			return
		}
		ct := new(concrete.LweCiphertext)
		if err := ct.UnmarshalBinary(data); err != nil {
			p.fail(ctx, job, "unmarshal input %d: %v", i, err)
			return
		}
		inputs[i] = ct
	}

	result, err := evalGate(eval, job.Op, inputs)
	if err != nil {
		p.fail(ctx, job, "%s: %v", job.Op, err)
		return
	}

	resultData, err := result.MarshalBinary()
	if err != nil {
		p.fail(ctx, job, "marshal result: %v", err)
		return
	}
	handle, err := p.store.Put(ctx, resultData)
	if err != nil {
		p.fail(ctx, job, "store result: %v", err)
		return
	}

	job.Status = queue.StatusDone
	job.Result = string(handle)
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("worker %d: update job result: %v", workerID, err)
	}

	p.successCount.Add(1)
	log.Printf("worker %d: job %s done", workerID, job.ID)
}

// evalGate dispatches a validated job to the evaluator.
func evalGate(eval *concrete.Evaluator, op queue.Op, in []*concrete.LweCiphertext) (*concrete.LweCiphertext, error) {
	switch op {
	case queue.OpNot:
		return eval.Not(in[0]), nil
	case queue.OpAnd:
		return eval.And(in[0], in[1])
	case queue.OpOr:
		return eval.Or(in[0], in[1])
	case queue.OpNand:
		return eval.Nand(in[0], in[1])
	case queue.OpNor:
		return eval.Nor(in[0], in[1])
	case queue.OpXor:
		return eval.Xor(in[0], in[1])
	case queue.OpXnor:
		return eval.Xnor(in[0], in[1])
	case queue.OpMux:
		return eval.Mux(in[0], in[1], in[2])
	case queue.OpMajority:
		return eval.Majority(in[0], in[1], in[2])
	case queue.OpRefresh:
		return eval.Refresh(in[0])
	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
}
