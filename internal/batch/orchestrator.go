// Package batch renders every eligible row of a table concurrently and
// streams the finished pages into a zip archive.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sunthewhat/easy-cert-batch/internal/fields"
	"github.com/sunthewhat/easy-cert-batch/internal/ingest"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
	"github.com/sunthewhat/easy-cert-batch/internal/renderer"
)

// Observer receives per-row progress. Every call is made from the
// goroutine running Run, in completion order.
type Observer interface {
	RowDone(row int)
	RowFailed(row int, err error)
	Packaging()
}

// Result summarizes a finished batch.
type Result struct {
	Archive []byte
	Total   int
	Success int
	Errors  int
}

// Task is one row ready to render.
type Task struct {
	Row    int
	Key    layout.TemplateKey
	Values map[string]string
	Entry  string
}

type outcome struct {
	task Task
	page []byte
	err  error
}

// Orchestrator plans rows, dispatches them to the shared pool and collects
// the pages.
type Orchestrator struct {
	pool   *Pool
	values layout.ValueOptions
}

func NewOrchestrator(pool *Pool, values layout.ValueOptions) *Orchestrator {
	return &Orchestrator{pool: pool, values: values}
}

// Plan resolves one row into a render task. Rows are numbered from 1.
func (o *Orchestrator) Plan(row int, raw ingest.RawRow, group layout.Group, r renderer.Renderer) (Task, error) {
	resolved := fields.Resolve(raw)
	if missing := resolved.Missing(); len(missing) > 0 {
		return Task{}, &MissingFieldsError{Row: row, Fields: missing}
	}

	dates := layout.ParseDates(resolved.DatesRaw)
	key := layout.TemplateKey{
		Group:   group,
		Kind:    layout.PickKind(dates),
		Variant: r.Variant(resolved.FullName()),
	}

	return Task{
		Row:    row,
		Key:    key,
		Values: layout.FieldValues(resolved, dates, o.values),
		Entry:  EntryName(resolved.CertID, resolved.LastName, resolved.FirstName),
	}, nil
}

// Run renders table with r. Row failures are reported to obs and counted;
// only a batch with no successful row returns an error.
func (o *Orchestrator) Run(ctx context.Context, table *ingest.Table, group layout.Group, r renderer.Renderer, obs Observer) (*Result, error) {
	logCtx := slog.With("group", group.String(), "rows", len(table.Rows))
	result := &Result{Total: len(table.Rows)}

	var tasks []Task
	for i, raw := range table.Rows {
		task, err := o.Plan(i+1, raw, group, r)
		if err != nil {
			logCtx.Warn("Skipping row", "row", i+1, "error", err)
			result.Errors++
			obs.RowFailed(i+1, err)
			continue
		}
		tasks = append(tasks, task)
	}

	outcomes := o.dispatch(ctx, tasks, r)

	out := newArchive()
	for res := range outcomes {
		if res.err == nil {
			res.err = out.add(res.task.Entry, res.page)
		}
		if res.err != nil {
			logRowError(logCtx, res.task, res.err)
			result.Errors++
			obs.RowFailed(res.task.Row, res.err)
			continue
		}
		result.Success++
		obs.RowDone(res.task.Row)
	}

	if result.Success == 0 {
		return result, &ZeroSuccessError{Required: RequiredColumns, Detected: table.Columns}
	}

	obs.Packaging()
	archive, err := out.close()
	if err != nil {
		return result, err
	}
	result.Archive = archive

	logCtx.Info("Batch finished", "success", result.Success, "errors", result.Errors)
	return result, nil
}

// dispatch fans tasks out and returns a channel of outcomes in completion
// order, closed once every task has finished.
func (o *Orchestrator) dispatch(ctx context.Context, tasks []Task, r renderer.Renderer) <-chan outcome {
	outcomes := make(chan outcome, len(tasks))

	var g errgroup.Group
	g.SetLimit(o.pool.Size())

	go func() {
		defer close(outcomes)
		for _, task := range tasks {
			g.Go(func() error {
				outcomes <- o.render(ctx, task, r)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return outcomes
}

func (o *Orchestrator) render(ctx context.Context, task Task, r renderer.Renderer) (res outcome) {
	res.task = task
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("render panicked: %v", p)
		}
	}()

	res.err = o.pool.Do(ctx, func() error {
		page, err := r.Render(ctx, task.Key, task.Values)
		res.page = page
		return err
	})
	return res
}

func logRowError(logCtx *slog.Logger, task Task, err error) {
	var convErr *renderer.ConversionError
	switch {
	case errors.As(err, &convErr):
		logCtx.Error("Conversion failed", "row", task.Row, "template", task.Key.String(), "error", err, "output", convErr.Output)
	case errors.Is(err, renderer.ErrTemplateNotFound):
		logCtx.Warn("Template missing", "row", task.Row, "template", task.Key.String(), "error", err)
	default:
		logCtx.Error("Render failed", "row", task.Row, "template", task.Key.String(), "error", err)
	}
}
