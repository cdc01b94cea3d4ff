package dispatch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aiprovider"
)

// callPath is one way of reaching a provider.
type callPath struct {
	name string
	call func(ctx context.Context, params aiprovider.CallParams) (*aiprovider.CallResult, error)
}

// adapterPaths lists an adapter's call paths in preference order: the SDK
// path first, the provider-native path second where one exists.
func adapterPaths(adapter aiprovider.Adapter) []callPath {
	paths := []callPath{{name: "sdk", call: adapter.Call}}
	if native, ok := adapter.(aiprovider.NativeFallback); ok {
		paths = append(paths, callPath{name: "native", call: native.CallNative})
	}
	return paths
}

// tryInOrder attempts the paths in order with identical inputs, returning
// the first success. A preferred-path failure is logged but not surfaced
// unless every path fails. Cancellation and timeouts stop the chain; a
// request the user canceled must not be replayed on the alternate path.
func tryInOrder(ctx context.Context, params aiprovider.CallParams, paths []callPath, log zerolog.Logger) (*aiprovider.CallResult, error) {
	var lastErr error
	for _, path := range paths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result, err := path.call(ctx, params)
		if err == nil {
			return result, nil
		}
		kind := aierrors.KindOf(err)
		if kind == aierrors.KindCancelled || kind == aierrors.KindTimeout {
			return nil, err
		}
		log.Debug().Err(err).Str("path", path.name).Msg("Provider call path failed")
		lastErr = err
	}
	return nil, lastErr
}
