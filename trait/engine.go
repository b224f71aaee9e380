package trait

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/carbocation/glytrait/formula"
	"github.com/carbocation/glytrait/glycan"
)

// Engine computes trait tables. The zero value uses one worker per CPU.
type Engine struct {
	// Workers bounds the number of samples evaluated concurrently. 0 means
	// runtime.NumCPU(); 1 evaluates serially.
	Workers int
}

// Compute evaluates every formula for every sample of table. All formulas are
// validated before any cell is computed, so an invalid formula yields an
// error and no table at all.
func (e Engine) Compute(formulas []formula.Formula, table *glycan.Table) (*Table, error) {
	if err := formula.ValidateAll(formulas); err != nil {
		return nil, fmt.Errorf("ValidateFormulasErr: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("ValidateTableErr: %w", err)
	}

	out := newTable(formulas, table.Samples)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if workers == 1 {
		for i := range table.Samples {
			computeSample(out, formulas, table, i)
		}
		return out, nil
	}

	// Each goroutine owns one sample column, so no two goroutines write the
	// same cell.
	concurrencyLimit := make(chan struct{}, workers)
	var pool sync.WaitGroup
	for i := range table.Samples {
		concurrencyLimit <- struct{}{}
		pool.Add(1)
		go func(i int) {
			defer func() {
				<-concurrencyLimit
				pool.Done()
			}()
			computeSample(out, formulas, table, i)
		}(i)
	}
	pool.Wait()

	return out, nil
}

func computeSample(out *Table, formulas []formula.Formula, table *glycan.Table, sample int) {
	abundances := table.Sample(sample)
	for t, f := range formulas {
		out.Values[t][sample] = Evaluate(f, table.Structures, abundances)
	}
}
