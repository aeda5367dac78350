package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/born-ml/ndarray/backend/cpu"
	"github.com/born-ml/ndarray/backend/dense"
	"github.com/born-ml/ndarray/tensor"
)

// config holds the command line settings.
type config struct {
	backend  string
	dtype    string
	maxDepth int
	workers  int
	op       string
	operand  string
}

func registerFlags(fs *flag.FlagSet) *config {
	cfg := &config{}
	fs.StringVar(&cfg.backend, "backend", "cpu", "Compute backend: \"cpu\" or \"dense\" (gorgonia).")
	fs.StringVar(&cfg.dtype, "dtype", "float32", "Element type of the array, e.g. float32, float64, int32, int64, uint8, bool, float16.")
	fs.IntVar(&cfg.maxDepth, "max_depth", tensor.MaxDims, "Maximum nesting depth of the reported shape inference. The array itself is always materialized at full depth.")
	fs.IntVar(&cfg.workers, "workers", 0, "Goroutines per element-wise kernel of the cpu backend; 0 uses every CPU.")
	fs.StringVar(&cfg.op, "op", "", "Optional element-wise operator applied before indexing: add, sub, mul or div.")
	fs.StringVar(&cfg.operand, "operand", "", "Right operand of -op: a number or a nested list literal.")
	return cfg
}

// minChunk is the smallest number of elements a cpu kernel goroutine handles.
const minChunk = 1 << 14

var backends = map[string]func(cfg *config) tensor.Backend{
	"cpu": func(cfg *config) tensor.Backend {
		if cfg.workers > 0 {
			return cpu.New(cpu.WithWorkers(cfg.workers, minChunk))
		}
		return cpu.New()
	},
	"dense": func(*config) tensor.Backend { return dense.New() },
}

func (cfg *config) newBackend() (tensor.Backend, error) {
	newFn, found := backends[cfg.backend]
	if !found {
		return nil, errors.Errorf("unknown backend %q, valid values are \"cpu\" and \"dense\"", cfg.backend)
	}
	return newFn(cfg), nil
}

var binaryOps = map[string]tensor.BinaryOp{
	"add": tensor.OpAdd,
	"sub": tensor.OpSub,
	"mul": tensor.OpMul,
	"div": tensor.OpDiv,
}

// binaryOp returns the operator named by -op; ok is false when no operator is set.
func (cfg *config) binaryOp() (op tensor.BinaryOp, ok bool, err error) {
	if cfg.op == "" {
		return 0, false, nil
	}
	op, found := binaryOps[cfg.op]
	if !found {
		return 0, false, errors.Errorf("unknown operator %q for -op", cfg.op)
	}
	if cfg.operand == "" {
		return 0, false, errors.New("-op requires -operand")
	}
	return op, true, nil
}
