package slepian

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"strconv"
)

// Cache persists solved eigenpair sets between runs. Implementations are
// read-through/write-through stores keyed by strings; see the cache
// package for BadgerDB and in-memory backends.
//
// Get reports a miss with ok == false and a nil error. Errors from either
// method never fail a solve: the solver logs them and recomputes.
type Cache interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
}

var errStaleRecord = errors.New("stale cache record")

// cacheRecord is the persisted form of an eigenpair set.
type cacheRecord struct {
	Version int
	Key     string
	Values  []float64
	Vectors [][]complex128
	Trace   float64
}

func cacheKey(region Region, L int, suffix string) string {
	key := "slepian/v" + strconv.Itoa(SolverVersion) + "/" + region.Key() + "/L" + strconv.Itoa(L)
	if suffix != "" {
		key += "/" + suffix
	}
	return key
}

func encodeRecord(key string, p *Eigenpairs) ([]byte, error) {
	var buf bytes.Buffer
	rec := cacheRecord{
		Version: SolverVersion,
		Key:     key,
		Values:  p.Values,
		Vectors: p.Vectors,
		Trace:   p.Trace,
	}
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRecord restores an eigenpair set, rejecting records written by a
// different solver version, for a different key, or with the wrong shape.
func decodeRecord(key string, rank int, data []byte) (*Eigenpairs, error) {
	var rec cacheRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, err
	}
	switch {
	case rec.Version != SolverVersion:
		return nil, fmt.Errorf("%w: version %d, want %d", errStaleRecord, rec.Version, SolverVersion)
	case rec.Key != key:
		return nil, fmt.Errorf("%w: key %q", errStaleRecord, rec.Key)
	case len(rec.Values) != rank || len(rec.Vectors) != rank:
		return nil, fmt.Errorf("%w: %d pairs, want %d", errStaleRecord, len(rec.Values), rank)
	}
	for _, v := range rec.Vectors {
		if len(v) != rank {
			return nil, fmt.Errorf("%w: vector length %d, want %d", errStaleRecord, len(v), rank)
		}
	}
	return &Eigenpairs{Values: rec.Values, Vectors: rec.Vectors, Trace: rec.Trace}, nil
}
