// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package storage provides content-addressed storage for serialized
// ciphertexts and evaluation keys. Handles are blake3 digests of the
// stored bytes, so identical ciphertexts deduplicate and a handle can
// never reference anything but the bytes it was computed from.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"
)

// Common errors.
var (
	ErrNotFound      = errors.New("ciphertext not found")
	ErrCapacity      = errors.New("storage capacity exceeded")
	ErrInvalidHandle = errors.New("invalid ciphertext handle")
)

// Handle is the hex blake3 digest of a stored blob.
type Handle string

// handleLen is the hex length of a blake3-256 digest.
const handleLen = 64

// NewHandle computes the handle of a blob.
func NewHandle(data []byte) Handle {
	sum := blake3.Sum256(data)
	return Handle(hex.EncodeToString(sum[:]))
}

// Validate rejects handles that are not well-formed digests. Backends call
// this before using a handle in a lookup, which also keeps file paths free
// of traversal tricks.
func (h Handle) Validate() error {
	if len(h) != handleLen {
		return fmt.Errorf("%w: length %d", ErrInvalidHandle, len(h))
	}
	if _, err := hex.DecodeString(string(h)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	return nil
}

// Store is a content-addressed blob store.
type Store interface {
	// Put saves a blob and returns its handle.
	Put(ctx context.Context, data []byte) (Handle, error)
	// Get retrieves a blob by handle.
	Get(ctx context.Context, h Handle) ([]byte, error)
	// Remove deletes a blob.
	Remove(ctx context.Context, h Handle) error
	// Has reports whether a blob exists.
	Has(ctx context.Context, h Handle) (bool, error)
	// Close releases backend resources.
	Close() error
}

// Memory is an in-memory Store with a byte capacity, for tests and
// single-process deployments.
type Memory struct {
	mu    sync.RWMutex
	blobs map[Handle][]byte
	cap   int64
	size  int64
}

// NewMemory creates an in-memory store holding up to capacityMB megabytes.
func NewMemory(capacityMB int64) *Memory {
	return &Memory{
		blobs: make(map[Handle][]byte),
		cap:   capacityMB << 20,
	}
}

func (s *Memory) Put(_ context.Context, data []byte) (Handle, error) {
	h := NewHandle(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[h]; ok {
		return h, nil
	}
	if s.size+int64(len(data)) > s.cap {
		return "", ErrCapacity
	}
	s.blobs[h] = append([]byte(nil), data...)
	s.size += int64(len(data))
	return h, nil
}

func (s *Memory) Get(_ context.Context, h Handle) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[h]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Memory) Remove(_ context.Context, h Handle) error {
	if err := h.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[h]
	if !ok {
		return ErrNotFound
	}
	s.size -= int64(len(data))
	delete(s.blobs, h)
	return nil
}

func (s *Memory) Has(_ context.Context, h Handle) (bool, error) {
	if err := h.Validate(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[h]
	return ok, nil
}

func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = nil
	s.size = 0
	return nil
}

// Disk is a file-backed Store, sharded by handle prefix. Evaluation keys
// run to tens of megabytes, so blobs are written through a temp file and
// renamed for atomicity.
type Disk struct {
	root string
}

// NewDisk creates a file-backed store rooted at dir.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Disk{root: dir}, nil
}

// path maps a validated handle to its sharded file location.
func (s *Disk) path(h Handle) string {
	return filepath.Join(s.root, string(h[:2]), string(h))
}

func (s *Disk) Put(_ context.Context, data []byte) (Handle, error) {
	h := NewHandle(data)
	path := s.path(h)

	if _, err := os.Stat(path); err == nil {
		return h, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create shard dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("commit blob: %w", err)
	}
	return h, nil
}

func (s *Disk) Get(_ context.Context, h Handle) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (s *Disk) Remove(_ context.Context, h Handle) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if err := os.Remove(s.path(h)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (s *Disk) Has(_ context.Context, h Handle) (bool, error) {
	if err := h.Validate(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(h))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat blob: %w", err)
}

func (s *Disk) Close() error { return nil }
