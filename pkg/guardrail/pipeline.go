package guardrail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/prompts"
	"mercator-hq/aegis/pkg/schemas"
	"mercator-hq/aegis/pkg/telemetry/logging"
	"mercator-hq/aegis/pkg/telemetry/metrics"
	"mercator-hq/aegis/pkg/telemetry/tracing"
)

var (
	// ErrModel wraps errors returned by a ModelFunc.
	ErrModel = errors.New("model call failed")

	// ErrUnknownSchema indicates a prompt whose output schema reference is
	// not registered in package schemas.
	ErrUnknownSchema = errors.New("unknown output schema")
)

// ModelFunc calls the model for an accepted input using the resolved prompt
// and returns its raw output: a JSON string, bytes or an already decoded
// value.
type ModelFunc func(ctx context.Context, prompt prompts.Spec, in Input) (any, error)

// Request is one guarded model invocation.
type Request struct {
	// RequestID correlates logs, spans and the response. Generated when
	// empty.
	RequestID string `json:"request_id,omitempty"`

	// Intent selects the active prompt, e.g. "listing-autofill".
	Intent string `json:"intent"`

	// Input is the user submission.
	Input Input `json:"input"`
}

// Response is the outcome of a pipeline run. Output is nil when the input
// was rejected and the model was never called.
type Response[T any] struct {
	RequestID string              `json:"request_id"`
	PromptID  string              `json:"prompt_id,omitempty"`
	Input     Result              `json:"input"`
	Output    *ValidatedOutput[T] `json:"output,omitempty"`
}

// OK reports whether both gates passed.
func (r Response[T]) OK() bool {
	return r.Input.OK && r.Output != nil && r.Output.OK
}

// Reason returns the rejection reason of whichever gate failed.
func (r Response[T]) Reason() Reason {
	if !r.Input.OK {
		return r.Input.Reason
	}
	if r.Output != nil {
		return r.Output.Reason
	}
	return ""
}

// Pipeline runs the input gate, a caller-supplied model call and the output
// gate for a feature intent, recording logs, metrics and spans along the
// way. It is safe for concurrent use.
type Pipeline struct {
	input    *InputGuardrail
	output   *OutputGuardrail
	registry *prompts.Registry

	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. The default records nothing.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) {
		p.metrics = c
	}
}

// WithTracer sets the tracer. The default is a noop tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.tracer = t
		}
	}
}

// NewPipeline assembles a pipeline from its gates and prompt registry.
func NewPipeline(input *InputGuardrail, output *OutputGuardrail, registry *prompts.Registry, opts ...Option) (*Pipeline, error) {
	if input == nil || output == nil || registry == nil {
		return nil, errors.New("pipeline requires an input gate, an output gate and a prompt registry")
	}

	p := &Pipeline{
		input:    input,
		output:   output,
		registry: registry,
		logger:   logging.Nop(),
		tracer:   tracing.Noop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewPipelineFromConfig builds the gates and the prompt registry from cfg.
// Telemetry is supplied through options.
func NewPipelineFromConfig(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	input, err := NewInputGuardrail(&cfg.Guardrail.Input, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create input guardrail: %w", err)
	}

	registry, err := prompts.Load(&cfg.Prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt catalog: %w", err)
	}

	return NewPipeline(input, NewOutputGuardrail(&cfg.Guardrail.Output), registry, opts...)
}

// Registry returns the prompt registry.
func (p *Pipeline) Registry() *prompts.Registry {
	return p.registry
}

// CheckInput runs the input gate with telemetry.
func (p *Pipeline) CheckInput(ctx context.Context, in Input) Result {
	ctx, span := p.tracer.Start(ctx, tracing.SpanInput)
	defer span.End()

	start := time.Now()
	res := p.input.Check(in)
	elapsed := time.Since(start)

	if res.OK {
		p.metrics.RecordCheck(metrics.StageInput, metrics.OutcomePass, "", elapsed)
		tracing.SetCheckAttributes(span, metrics.OutcomePass, "", "")
		return res
	}

	p.metrics.RecordCheck(metrics.StageInput, metrics.OutcomeReject, res.Reason.Code(), elapsed)
	tracing.SetCheckAttributes(span, metrics.OutcomeReject, res.Reason.Code(), "")

	args := []any{"reason", string(res.Reason)}
	if res.Reason == ReasonMaliciousInputPattern {
		args = append(args, "pattern", p.input.Match(in.Text))
	}
	p.logger.DebugContext(ctx, "input rejected", args...)
	return res
}

// Resolve returns the active prompt for intent and records the lookup.
func (p *Pipeline) Resolve(ctx context.Context, intent string) (prompts.Spec, error) {
	spec, err := p.registry.Active(intent)
	if err != nil {
		p.metrics.RecordPromptResolution(intent, metrics.ResolutionNoActive)
		p.logger.WarnContext(ctx, "no active prompt", "intent", intent)
		return prompts.Spec{}, err
	}

	p.metrics.RecordPromptResolution(intent, metrics.ResolutionFound)
	return spec, nil
}

// CheckOutputContext runs the output gate with telemetry.
func CheckOutputContext[T any](ctx context.Context, p *Pipeline, output any, shape Validator[T]) ValidatedOutput[T] {
	ctx, span := p.tracer.Start(ctx, tracing.SpanOutput)
	defer span.End()

	start := time.Now()
	out, hit, err := checkOutput(p.output, output, shape)
	elapsed := time.Since(start)

	if out.OK {
		p.metrics.RecordCheck(metrics.StageOutput, metrics.OutcomePass, "", elapsed)
		tracing.SetCheckAttributes(span, metrics.OutcomePass, "", "")
		return out
	}

	code := out.Reason.Code()
	p.metrics.RecordCheck(metrics.StageOutput, metrics.OutcomeReject, code, elapsed)

	switch {
	case hit != nil:
		p.metrics.RecordPIIHit(hit.Type)
		tracing.SetCheckAttributes(span, metrics.OutcomeReject, code, hit.Type)
		p.logger.DebugContext(ctx, "output rejected",
			"reason", code,
			"pii_type", hit.Type,
			"location", hit.Location(),
		)
	case out.Reason == ReasonPIIScanFailed:
		tracing.SetCheckAttributes(span, metrics.OutcomeReject, code, "")
		p.logger.WarnContext(ctx, "output scan failed", "error", err)
	default:
		tracing.SetCheckAttributes(span, metrics.OutcomeReject, code, "")
		p.logger.DebugContext(ctx, "output rejected", "reason", code, "error", err)
	}
	return out
}

// Run executes a guarded model call with an explicit output shape.
//
// Rejections are reported in the Response, not as errors. An error is
// returned only when no prompt is active for the intent or when the model
// call fails.
//
// Example:
//
//	shape := shape.MustJSON[schemas.ListingAutofill]("listing", nil)
//	resp, err := guardrail.Run(ctx, pipeline, req, shape, callModel)
func Run[T any](ctx context.Context, p *Pipeline, req Request, shape Validator[T], model ModelFunc) (Response[T], error) {
	return run(ctx, p, req, model, func(prompts.Spec) (Validator[T], error) {
		return shape, nil
	})
}

// RunCatalog executes a guarded model call validating the output against
// the schema named by the resolved prompt's output schema reference.
func RunCatalog(ctx context.Context, p *Pipeline, req Request, model ModelFunc) (Response[any], error) {
	return run(ctx, p, req, model, func(spec prompts.Spec) (Validator[any], error) {
		entry, ok := schemas.Lookup(spec.OutputSchemaRef)
		if !ok {
			return nil, fmt.Errorf("%w: %q (prompt %s)", ErrUnknownSchema, spec.OutputSchemaRef, spec.ID)
		}
		return entry.Validator, nil
	})
}

func run[T any](ctx context.Context, p *Pipeline, req Request, model ModelFunc, pick func(prompts.Spec) (Validator[T], error)) (Response[T], error) {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	ctx = logging.WithRequestID(ctx, req.RequestID)
	ctx = logging.WithUser(ctx, req.Input.UserID)
	ctx = logging.WithIntent(ctx, req.Intent)

	ctx, span := p.tracer.Start(ctx, tracing.SpanPipeline)
	defer span.End()
	tracing.SetRequestAttributes(span, req.RequestID, req.Intent)
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}

	resp := Response[T]{RequestID: req.RequestID}

	resp.Input = p.CheckInput(ctx, req.Input)
	if !resp.Input.OK {
		tracing.SetCheckAttributes(span, metrics.OutcomeReject, resp.Input.Reason.Code(), "")
		return resp, nil
	}

	spec, err := p.Resolve(ctx, req.Intent)
	if err != nil {
		tracing.SetError(span, err)
		return resp, err
	}
	resp.PromptID = spec.ID
	ctx = logging.WithPromptID(ctx, spec.ID)
	tracing.SetPromptAttributes(span, spec.ID, spec.OutputSchemaRef)

	shape, err := pick(spec)
	if err != nil {
		tracing.SetError(span, err)
		return resp, err
	}

	raw, err := callModel(ctx, p, spec, req.Input, model)
	if err != nil {
		tracing.SetError(span, err)
		return resp, err
	}

	out := CheckOutputContext(ctx, p, raw, shape)
	resp.Output = &out
	if out.OK {
		tracing.SetCheckAttributes(span, metrics.OutcomePass, "", "")
	} else {
		tracing.SetCheckAttributes(span, metrics.OutcomeReject, out.Reason.Code(), out.Reason.PIIType())
	}
	return resp, nil
}

func callModel(ctx context.Context, p *Pipeline, spec prompts.Spec, in Input, model ModelFunc) (any, error) {
	ctx, span := p.tracer.Start(ctx, tracing.SpanModel)
	defer span.End()

	raw, err := model(ctx, spec, in)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrModel, err)
		tracing.SetError(span, err)
		p.logger.WarnContext(ctx, "model call failed", "error", err)
		return nil, err
	}
	return raw, nil
}
