// Package dispatch is the single choke point every workflow passes
// through: it resolves a model, shapes the request, selects the provider
// adapter and executes the call with cancellation, fallback and retry.
package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
	"github.com/promptdeck/promptdeck/pkg/aiprovider"
	"github.com/promptdeck/promptdeck/pkg/aitokens"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

// Request is one completion request. Task should be set explicitly by the
// caller; unspecified tasks fall back to legacy signature sniffing on the
// last message.
type Request struct {
	ModelID       string
	Messages      []aiprovider.Message
	Task          schemas.TaskKind
	SearchEnabled bool
}

// Dispatcher multiplexes completion requests across provider adapters.
type Dispatcher struct {
	catalog  *aimodels.Catalog
	registry *aiprovider.Registry
	creds    aiprovider.Credentials
	retry    RetryPolicy
	log      zerolog.Logger
}

// New creates a dispatcher.
func New(catalog *aimodels.Catalog, registry *aiprovider.Registry, creds aiprovider.Credentials, retry RetryPolicy, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:  catalog,
		registry: registry,
		creds:    creds,
		retry:    retry,
		log:      log.With().Str("component", "dispatch").Logger(),
	}
}

// Generate resolves the model, attaches the task schema where structured
// output applies and executes the provider call. The preferred SDK path
// falls back transparently to the provider-native path; only if both fail
// does the request fail.
func (d *Dispatcher) Generate(ctx context.Context, req Request) (*aiprovider.CallResult, error) {
	model, err := d.catalog.Resolve(req.ModelID)
	if err != nil {
		return nil, err
	}

	adapter := d.registry.Get(model.Provider)
	if adapter == nil {
		return nil, aierrors.Newf(aierrors.KindProviderNotConfigured,
			"no adapter registered for provider %q", model.Provider)
	}
	if model.Provider != aimodels.ProviderLocal {
		if key, ok := d.creds.Key(model.Provider); !ok || key == "" {
			return nil, aierrors.Newf(aierrors.KindProviderNotConfigured,
				"no API key configured for provider %q", model.Provider)
		}
	}

	params := aiprovider.CallParams{
		Model:         model,
		Messages:      req.Messages,
		Task:          d.resolveTask(req),
		SearchEnabled: req.SearchEnabled,
	}
	if model.SupportsStructuredOutput() {
		params.Schema = schemas.ForTask(params.Task)
	}

	log := d.log.With().
		Str("model", model.ID).
		Str("provider", string(model.Provider)).
		Str("task", string(params.Task)).
		Logger()
	if tokens, err := aitokens.EstimateMessages(req.Messages, model.ProviderModelID); err == nil {
		log.Debug().Int("estimated_prompt_tokens", tokens).Msg("Dispatching completion request")
	}

	start := time.Now()
	result, err := d.callWithRetry(ctx, adapter, params, log)
	if err != nil {
		kind := aierrors.KindOf(err)
		if kind == aierrors.KindCancelled || kind == aierrors.KindTimeout {
			return nil, aierrors.Classify(err)
		}
		log.Warn().Err(err).Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("Completion request failed")
		return nil, aierrors.Classify(err)
	}

	log.Debug().
		Str("request_id", result.RequestID).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("Completion request finished")
	return result, nil
}

// resolveTask prefers the caller's explicit task tag; the legacy sniffer
// only runs for unspecified tasks.
func (d *Dispatcher) resolveTask(req Request) schemas.TaskKind {
	if req.Task != schemas.TaskUnspecified {
		return req.Task
	}
	return schemas.InferTask(aiprovider.LastText(req.Messages))
}

func (d *Dispatcher) callWithRetry(ctx context.Context, adapter aiprovider.Adapter, params aiprovider.CallParams, log zerolog.Logger) (*aiprovider.CallResult, error) {
	attempts := adapterPaths(adapter)

	var lastErr error
	for attempt := 0; attempt <= d.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Debug().Int("attempt", attempt).Msg("Retrying completion request")
			if d.retry.Backoff > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(d.retry.Backoff):
				}
			}
		}

		result, err := tryInOrder(ctx, params, attempts, log)
		if err == nil {
			return result, nil
		}
		kind := aierrors.KindOf(err)
		if kind == aierrors.KindCancelled || kind == aierrors.KindTimeout {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
