package mutate

import (
	"context"

	"ideapad/internal/model"
	"ideapad/internal/pad"

	"go.uber.org/zap"
)

// Op is one user intent, already validated against the state it was built from.
//
// Begin applies the optimistic part (if any) on the event loop. Run does the remote
// I/O and must not touch state, so it can run on any goroutine. The Result it
// returns is applied back on the event loop and may yield a follow-up Op.
type Op struct {
	Name string

	begin  func(*pad.State)
	before func(context.Context) error
	run    func(context.Context) (Result, error)
	log    *zap.Logger
}

func (op *Op) Begin(st *pad.State) {
	if op.begin != nil {
		op.begin(st)
	}
}

// Run performs the remote call. Failures are logged here; callers decide how to report them.
func (op *Op) Run(ctx context.Context) (Result, error) {
	if op.before != nil {
		if err := op.before(ctx); err != nil {
			op.log.Error("remote call failed", zap.String("op", op.Name), zap.Error(err))
			return Result{}, err
		}
	}
	res, err := op.run(ctx)
	if err != nil {
		op.log.Error("remote call failed", zap.String("op", op.Name), zap.Error(err))
		return Result{}, err
	}
	return res, nil
}

// Result is a confirmed remote outcome.
type Result struct {
	// Idea/Folder are the records the store echoed back, when there is one.
	Idea   *model.Idea
	Folder *model.Folder

	apply func(*pad.State) *Op
}

// Apply mutates st with the confirmed outcome and returns the follow-up op, if any.
func (r Result) Apply(st *pad.State) *Op {
	if r.apply == nil {
		return nil
	}
	return r.apply(st)
}

func (r Result) merge(next Result) Result {
	if next.Idea != nil {
		r.Idea = next.Idea
	}
	if next.Folder != nil {
		r.Folder = next.Folder
	}
	return r
}
