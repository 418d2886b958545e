// Package idgen generates IDs for injections and recorded entries.
package idgen

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var idGeneratorMutex sync.Mutex
var idGeneratorInstantiated bool
var idGenerator Generator

// Generator can generate IDs
type Generator interface {
	// Generate an ID
	Generate() string
}

// UseSequentialGenerator configures the ID generator to generate IDs in
// sequential.
func UseSequentialGenerator() {
	setGenerator(&sequentialGenerator{})
}

// UseParallelGenerator configurs the ID generator to generate globally
// unique IDs. The IDs generated will not be deterministic anymore.
func UseParallelGenerator() {
	setGenerator(parallelGenerator{})
}

func setGenerator(g Generator) {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGeneratorInstantiated {
		log.Panic("cannot change id generator type after using it")
	}

	idGenerator = g
	idGeneratorInstantiated = true
}

// Get returns the ID generator used in the current process.
func Get() Generator {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if !idGeneratorInstantiated {
		idGenerator = &sequentialGenerator{}
		idGeneratorInstantiated = true
	}

	return idGenerator
}

// NewSequential returns a private sequential generator, starting from 1.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

// NewParallel returns a private generator backed by xid.
func NewParallel() Generator {
	return parallelGenerator{}
}

type sequentialGenerator struct {
	nextID uint64
}

func (g *sequentialGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

type parallelGenerator struct{}

func (parallelGenerator) Generate() string {
	return xid.New().String()
}
