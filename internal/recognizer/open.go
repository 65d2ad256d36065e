package recognizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"InkBoard/internal/analysis"
	"InkBoard/internal/config"
	inknet "InkBoard/internal/net"
)

// ErrNoRecognizer is returned by Open when remote mode has no service to
// talk to.
var ErrNoRecognizer = errors.New("no recognizer available")

// discoverTimeout bounds the mDNS query made by Open.
const discoverTimeout = 2 * time.Second

// Engines are the two engines a board needs: one kept in sync by the
// analysis scheduler and one driven by typeset passes.
type Engines struct {
	Analysis analysis.Engine
	Typeset  analysis.Engine
	URL      string // empty for local engines
}

// Open builds the engines cfg selects. In remote mode without a url the
// service is looked up over mDNS.
func Open(ctx context.Context, cfg *config.Config, dispatch analysis.Dispatcher) (*Engines, error) {
	rc := cfg.Recognizer
	if rc.Mode != config.RecognizerRemote {
		return &Engines{
			Analysis: NewLocal(DefaultOptions(), dispatch),
			Typeset:  NewLocal(DefaultOptions(), dispatch),
		}, nil
	}

	url := rc.URL
	if url == "" {
		if !rc.Discover {
			return nil, ErrNoRecognizer
		}
		found, err := inknet.Discover(ctx, discoverTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoRecognizer, err)
		}
		url = found
	}
	timeout := cfg.RecognizerTimeout()
	return &Engines{
		Analysis: NewRemote(url, timeout, dispatch),
		Typeset:  NewRemote(url, timeout, dispatch),
		URL:      url,
	}, nil
}

// Close disconnects remote engines.
func (e *Engines) Close() error {
	var errs []error
	for _, eng := range []analysis.Engine{e.Analysis, e.Typeset} {
		if r, ok := eng.(*Remote); ok {
			errs = append(errs, r.Close())
		}
	}
	return errors.Join(errs...)
}
