package mapper

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// Registry holds the data mappers of one unit of work and the RowSource
// they read from. Create one per request or command; Purge drops every
// mapper's identity map.
type Registry struct {
	source  types.RowSource
	log     *zap.SugaredLogger
	metrics *Metrics
	ctx     context.Context
	session string

	mu      sync.Mutex
	mappers map[string]*DataMapper
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger mappers write to.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMetrics makes mappers record identity-map and load counters.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithContext sets the context lazy loads run under. Ghosts load from
// inside record accessors, which take no context, so the registry carries
// it for them.
func WithContext(ctx context.Context) Option {
	return func(r *Registry) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// NewRegistry returns an empty registry reading from source.
func NewRegistry(source types.RowSource, opts ...Option) *Registry {
	r := &Registry{
		source:  source,
		log:     zap.NewNop().Sugar(),
		ctx:     context.Background(),
		mappers: make(map[string]*DataMapper),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.session = newSessionID()
	r.log = r.log.Named("mapper").With("session", r.session)
	return r
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Register creates the mapper described by def. Registering an identical
// definition again returns the existing mapper; a different definition
// under the same name is ErrConflictingRegistration.
func (r *Registry) Register(def Definition) (*DataMapper, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	def.Relations = slices.Clone(def.Relations)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.mappers[def.Name]; ok {
		if existing.def.equal(def) {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrConflictingRegistration, def.Name)
	}
	m := newDataMapper(def, r)
	r.mappers[def.Name] = m
	r.log.Debugw("mapper registered", "mapper", def.Name, "table", def.Table)
	return m, nil
}

// Get returns the mapper registered under name.
func (r *Registry) Get(name string) (*DataMapper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.mappers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMapperNotFound, name)
	}
	return m, nil
}

// Names returns the registered mapper names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.mappers))
}

// Purge drops the identity map of every mapper.
func (r *Registry) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mappers {
		m.Purge()
	}
}

// SessionID identifies this registry in log output.
func (r *Registry) SessionID() string { return r.session }

// Context returns the context lazy loads run under.
func (r *Registry) Context() context.Context { return r.ctx }

// Source returns the RowSource mappers read from.
func (r *Registry) Source() types.RowSource { return r.source }
