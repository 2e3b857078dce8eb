package riskmodel

import (
	"fmt"
	"sync"
)

var (
	defaultOnce  sync.Once
	defaultModel *Model
)

var (
	configMu    sync.Mutex
	configured  bool
	defaultRows = DefaultRows
	defaultSeed = DefaultSeed
)

// Configure overrides the table size and seed of the process-wide model.
// It must run before the first call to Default and fails afterwards.
func Configure(rows int, seed uint64) error {
	configMu.Lock()
	defer configMu.Unlock()
	if configured {
		return fmt.Errorf("riskmodel: default model already trained")
	}
	if rows <= 0 {
		return fmt.Errorf("riskmodel: rows must be positive, got %d", rows)
	}
	defaultRows, defaultSeed = rows, seed
	return nil
}

// Default returns the process-wide model, training it on first use.
func Default() *Model {
	defaultOnce.Do(func() {
		configMu.Lock()
		configured = true
		rows, seed := defaultRows, defaultSeed
		configMu.Unlock()

		m, err := Train(Synthesize(rows, seed), DefaultTreeConfig())
		if err != nil {
			// rows > 0 is enforced by Configure, so training cannot fail.
			panic(fmt.Sprintf("riskmodel: train default model: %v", err))
		}
		defaultModel = m
	})
	return defaultModel
}
