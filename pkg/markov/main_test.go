package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// buildTestTable tokenizes text and runs it through the full build pipeline,
// failing the test on any error.
func buildTestTable(t *testing.T, text string, order int, cyclic bool) *Table {
	t.Helper()
	b, err := NewBuilder(order, WithCyclic(cyclic))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	if err := b.Consume(Tokenize(text)); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	table, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze() error = %v", err)
	}
	return table
}

// seededGenerator returns a generator with a fixed PCG seed so runs are
// reproducible across test executions.
func seededGenerator(table *Table, seed uint64) *Generator {
	g := NewGenerator(table)
	g.SetRand(rand.New(rand.NewPCG(seed, seed)))
	return g
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
