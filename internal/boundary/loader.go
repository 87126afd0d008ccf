package boundary

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/metrics"
)

// UserMessage is the only failure text shown to end users.
const UserMessage = "Failed to load map data. Please check connection."

// ErrLoadFailed is returned once both locations have failed.
var ErrLoadFailed = eris.New("boundary: load failed")

// ErrTooLarge is returned for a dataset larger than the loader's limit.
var ErrTooLarge = eris.New("boundary: dataset too large")

// MaxDatasetBytes is the default dataset size limit.
const MaxDatasetBytes = 64 << 20

// State is the loader state.
type State int

// Loader states. Ready and Failed are terminal.
const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader fetches the boundary dataset once, trying the primary location
// then the alternate. A failure after both is never retried.
type Loader struct {
	primary   string
	alternate string
	client    *http.Client
	metrics   *metrics.Metrics
	maxBytes  int64

	mu    sync.Mutex
	state State
	ds    *Dataset
	err   error
	done  chan struct{}
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for URL locations.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithMaxBytes caps the size of a dataset read from either location.
func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) { l.maxBytes = n }
}

// WithMetrics records load outcomes on m.
func WithMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader creates an idle loader. Locations are http(s) URLs or file
// paths.
func NewLoader(primary, alternate string, opts ...LoaderOption) *Loader {
	l := &Loader{
		primary:   primary,
		alternate: alternate,
		client:    &http.Client{Timeout: 30 * time.Second},
		maxBytes:  MaxDatasetBytes,
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Start begins loading in the background. Calls after the first are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.state != Idle {
		l.mu.Unlock()
		return
	}
	l.state = Loading
	l.mu.Unlock()

	go l.run(context.WithoutCancel(ctx))
}

// Load starts loading if needed and waits for the outcome or ctx.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	l.Start(ctx)
	select {
	case <-l.done:
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "boundary: wait for load")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ds, l.err
}

// Done is closed once the loader reaches Ready or Failed.
func (l *Loader) Done() <-chan struct{} { return l.done }

// State returns the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Dataset returns the loaded dataset, or nil before Ready.
func (l *Loader) Dataset() *Dataset {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ds
}

// Err returns the terminal error, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loader) run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "boundary"))

	ds, outcome, err := l.fetchAny(ctx, log)

	l.mu.Lock()
	if err != nil {
		l.state = Failed
		l.err = eris.Wrap(ErrLoadFailed, err.Error())
		log.Error("boundary: dataset unavailable", zap.Error(err))
	} else {
		l.state = Ready
		l.ds = ds
		log.Info("boundary: dataset loaded",
			zap.String("source", ds.Source),
			zap.Int("features", len(ds.Features)),
		)
	}
	l.mu.Unlock()

	l.metrics.BoundaryLoaded(outcome)
	close(l.done)
}

func (l *Loader) fetchAny(ctx context.Context, log *zap.Logger) (*Dataset, string, error) {
	ds, err := l.fetchParse(ctx, l.primary)
	if err == nil {
		return ds, "primary", nil
	}
	log.Warn("boundary: primary location failed, trying alternate",
		zap.String("primary", l.primary),
		zap.Error(err),
	)

	if l.alternate == "" {
		return nil, "failed", err
	}
	ds, altErr := l.fetchParse(ctx, l.alternate)
	if altErr == nil {
		return ds, "alternate", nil
	}
	return nil, "failed", eris.Wrapf(altErr, "primary: %v; alternate", err)
}

func (l *Loader) fetchParse(ctx context.Context, location string) (*Dataset, error) {
	data, err := l.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: parse %s", location)
	}
	ds.Source = location
	return ds, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isURL(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: read %s", location)
		}
		defer f.Close() //nolint:errcheck
		return l.readLimited(f, location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: create request %s", location)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: get %s", location)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("boundary: get %s: status %d", location, resp.StatusCode)
	}
	return l.readLimited(resp.Body, location)
}

// readLimited reads at most maxBytes+1 bytes so an oversized dataset is
// rejected without buffering all of it.
func (l *Loader) readLimited(r io.Reader, location string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read body %s", location)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, eris.Wrapf(ErrTooLarge, "%s exceeds %d bytes", location, l.maxBytes)
	}
	return data, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
