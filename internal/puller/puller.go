// Package puller wires the parameter fetch to the environment file write.
//
// The pipeline is strictly sequential: fetch, then write. Any fetch error
// short-circuits before the filesystem is touched, so an existing file is
// left as it was whenever the configuration would have been incomplete.
package puller

import (
	"context"

	"ssmpuller/internal/types"
)

// ParameterFetcher resolves parameter names to values.
type ParameterFetcher interface {
	Fetch(ctx context.Context, names []string) ([]types.Parameter, error)
}

// FileWriter replaces the file at path with the rendered parameters.
type FileWriter interface {
	Write(path string, params []types.Parameter) error
}

// Recorder observes the outcome of a pull. Implementations must not fail
// the pull; errors are theirs to handle.
type Recorder interface {
	RecordSuccess(ctx context.Context, count int)
	RecordFailure(ctx context.Context, kind types.ErrorKind)
}

// Result describes a completed pull.
type Result struct {
	Path       string
	Parameters int
	Names      []string
}

// Puller runs the fetch-validate-write pipeline.
type Puller struct {
	fetcher  ParameterFetcher
	writer   FileWriter
	recorder Recorder
}

// Option configures a Puller.
type Option func(*Puller)

// WithRecorder attaches a Recorder that is notified after every Pull.
func WithRecorder(r Recorder) Option {
	return func(p *Puller) {
		p.recorder = r
	}
}

// New creates a Puller from a fetcher and a writer.
func New(fetcher ParameterFetcher, writer FileWriter, opts ...Option) *Puller {
	p := &Puller{
		fetcher: fetcher,
		writer:  writer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pull fetches names and writes the resolved parameters to path.
//
// Errors are returned unchanged from the stage that produced them: DEPENDENCY
// and INVALID_PARAMETER from the fetch, IO from the write.
func (p *Puller) Pull(ctx context.Context, path string, names []string) (Result, error) {
	params, err := p.fetcher.Fetch(ctx, names)
	if err != nil {
		p.recordFailure(ctx, err)
		return Result{}, err
	}

	if err := p.writer.Write(path, params); err != nil {
		p.recordFailure(ctx, err)
		return Result{}, err
	}

	if p.recorder != nil {
		p.recorder.RecordSuccess(ctx, len(params))
	}

	return Result{
		Path:       path,
		Parameters: len(params),
		Names:      types.ParameterNames(params),
	}, nil
}

func (p *Puller) recordFailure(ctx context.Context, err error) {
	if p.recorder == nil {
		return
	}
	kind, ok := types.KindOf(err)
	if !ok {
		// Unclassified errors can only come from the fetch side.
		kind = types.ErrKindDependency
	}
	p.recorder.RecordFailure(ctx, kind)
}
