// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package queue distributes encrypted gate evaluations to workers. Jobs
// reference ciphertexts by storage handle; the queue itself never carries
// ciphertext bytes.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Common errors.
var (
	ErrJobNotFound = errors.New("job not found")
	ErrBadJob      = errors.New("malformed job")
)

// Op names a homomorphic operation a worker can run.
type Op string

const (
	OpNot      Op = "not"
	OpAnd      Op = "and"
	OpOr       Op = "or"
	OpNand     Op = "nand"
	OpNor      Op = "nor"
	OpXor      Op = "xor"
	OpXnor     Op = "xnor"
	OpMux      Op = "mux"
	OpMajority Op = "majority"
	OpRefresh  Op = "refresh"
)

// arity maps each operation to its input count.
var arity = map[Op]int{
	OpNot:      1,
	OpAnd:      2,
	OpOr:       2,
	OpNand:     2,
	OpNor:      2,
	OpXor:      2,
	OpXnor:     2,
	OpMux:      3,
	OpMajority: 3,
	OpRefresh:  1,
}

// Status is the lifecycle state of a job.
type Status uint8

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// Job is one gate evaluation request. Inputs and Result are storage
// handles of serialized LWE ciphertexts.
type Job struct {
	ID        string    `json:"id"`
	Op        Op        `json:"op"`
	Inputs    []string  `json:"inputs"`
	Result    string    `json:"result,omitempty"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the job shape before it is enqueued or executed.
func (j *Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("%w: empty id", ErrBadJob)
	}
	want, ok := arity[j.Op]
	if !ok {
		return fmt.Errorf("%w: unknown op %q", ErrBadJob, j.Op)
	}
	if len(j.Inputs) != want {
		return fmt.Errorf("%w: op %q takes %d inputs, got %d", ErrBadJob, j.Op, want, len(j.Inputs))
	}
	return nil
}

// Queue is the job transport between submitters and workers.
type Queue interface {
	// Push enqueues a pending job.
	Push(ctx context.Context, job *Job) error
	// Pop blocks until a job is available and claims it.
	Pop(ctx context.Context) (*Job, error)
	// Update persists the current state of a job.
	Update(ctx context.Context, job *Job) error
	// Get looks a job up by ID.
	Get(ctx context.Context, id string) (*Job, error)
	// Close releases the transport.
	Close() error
}

// jobTTL bounds how long finished job records stay visible.
const jobTTL = 24 * time.Hour

// Redis is a Queue over a Redis list plus per-job records.
type Redis struct {
	client *redis.Client
	list   string
	prefix string
}

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(cfg RedisConfig, name string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		client: client,
		list:   "concrete:queue:" + name,
		prefix: "concrete:job:",
	}, nil
}

func (q *Redis) Push(ctx context.Context, job *Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	job.Status = StatusPending
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, q.prefix+job.ID, data, jobTTL)
	pipe.LPush(ctx, q.list, job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

func (q *Redis) Pop(ctx context.Context) (*Job, error) {
	res, err := q.client.BRPop(ctx, 0, q.list).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("pop job: %w", err)
	}
	// BRPop returns [list, value].
	if len(res) < 2 {
		return nil, fmt.Errorf("%w: short BRPop reply", ErrBadJob)
	}
	return q.Get(ctx, res[1])
}

func (q *Redis) Update(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.Set(ctx, q.prefix+job.ID, data, jobTTL).Err(); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (q *Redis) Get(ctx context.Context, id string) (*Job, error) {
	data, err := q.client.Get(ctx, q.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func (q *Redis) Close() error {
	return q.client.Close()
}
