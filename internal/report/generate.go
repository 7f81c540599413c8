package report

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/tabloom-cli/internal/banner"
	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
	"github.com/KaramelBytes/tabloom-cli/internal/tabulate"
)

// ErrNoQuestions is returned by Tabulate when the repository is empty.
var ErrNoQuestions = errors.New("no questions defined")

// Generator produces the report for every question in Repo.
type Generator struct {
	Repo     question.Repository
	Segments []banner.Segment
	// Workers bounds concurrent crosstabs; 0 means one per CPU.
	Workers int
}

// Output says where a report is written.
type Output struct {
	Dir    string
	Prefix string
	// Latest is the fixed-name copy; LatestFileName when empty.
	Latest string
}

// Result summarises a generation run.
type Result struct {
	RunID  string
	Tables int
	Rows   int
	Files  []string
}

// Tabulate computes the crosstab of every question, in repository order.
// The first failure in report order is returned; later questions are skipped
// once a failure is known.
func (g *Generator) Tabulate(ctx context.Context, t *dataset.Table) ([]Table, error) {
	qs, err := g.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	if err := banner.Validate(g.Segments); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	tables := make([]Table, len(qs))
	errs := make([]error, len(qs))
	// failed holds the lowest index that has failed so far. Questions after
	// it are skipped; questions before it always run, so the reported error
	// is the first failure in report order.
	var failed atomic.Int64
	failed.Store(int64(len(qs)))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers())
	for i, q := range qs {
		grp.Go(func() error {
			if int64(i) > failed.Load() {
				return nil
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			grid, err := tabulateOne(t, q, g.Segments)
			if err != nil {
				errs[i] = err
				for {
					cur := failed.Load()
					if int64(i) >= cur || failed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}
			tables[i] = Table{Question: q, Grid: grid}
			logger.Debug().Int("question", q.ID).Str("var", q.Var()).Int("rows", len(grid.Rows)).Msg("crosstab built")
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if i := failed.Load(); i < int64(len(qs)) {
		return nil, errs[i]
	}
	return tables, nil
}

func tabulateOne(t *dataset.Table, q question.Question, segs []banner.Segment) (*tabulate.Grid, error) {
	if err := question.Validate(q); err != nil {
		return nil, err
	}
	return tabulate.Crosstab(t, q, segs)
}

func (g *Generator) workers() int {
	if g.Workers > 0 {
		return g.Workers
	}
	return runtime.NumCPU()
}
