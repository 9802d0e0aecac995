package archive

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// A codecFunc saves or loads the value v in the archive.
type codecFunc func(a Archive, v reflect.Value) error

// Resolution names the customization point a type is dispatched to.
type Resolution int

const (
	resolvedPending Resolution = iota
	ResolvedSaveLoad
	ResolvedSerialize
	ResolvedTrivial
	ResolvedContainer
)

func (r Resolution) String() string {
	switch r {
	case ResolvedSaveLoad:
		return "save/load"
	case ResolvedSerialize:
		return "serialize"
	case ResolvedTrivial:
		return "trivial"
	case ResolvedContainer:
		return "container"
	default:
		return "pending"
	}
}

// A strategy is the resolved way to move values of one type in one kind of archive.
type strategy struct {
	resolution Resolution
	save       codecFunc
	load       codecFunc
}

func (s *strategy) run(a Archive, v reflect.Value) error {
	if a.Mode() == Loading {
		return s.load(a, v)
	}

	if !v.CanAddr() {
		// hooks take the address of the value, work on a copy
		tmp := reflect.New(v.Type()).Elem()
		tmp.Set(v)
		v = tmp
	}

	return s.save(a, v)
}

type traitKey struct {
	Type reflect.Type
	Kind Kind
}

// A set of types that are currently in construction
type typeSet map[traitKey]struct{}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by the package level functions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Registry maps types to their hooks and resolves the strategy used for a
// type in a kind of archive. It is safe for concurrent use. Registering hooks
// invalidates all resolved strategies, so register types before using them.
type Registry struct {
	mu      sync.RWMutex
	hooks   map[traitKey]hooks
	trivial map[traitKey]struct{}

	// Cache for strategies, indexed by traitKey
	cache sync.Map

	// incremented with every registration, guarded by mu
	generation uint64
}

func NewRegistry() *Registry {
	return &Registry{
		hooks:   map[traitKey]hooks{},
		trivial: map[traitKey]struct{}{},
	}
}

// Resolve returns the customization point values of type ty are dispatched
// to in archives of the given kind.
func (r *Registry) Resolve(ty reflect.Type, kind Kind) (Resolution, error) {
	st, err := r.strategyFor(ty, kind)
	if err != nil {
		return 0, err
	}

	return st.resolution, nil
}

// IsTrivial reports whether values of type ty are copied as raw bytes in
// archives of the given kind.
func (r *Registry) IsTrivial(ty reflect.Type, kind Kind) bool {
	st, err := r.strategyFor(ty, kind)
	return err == nil && st.resolution == ResolvedTrivial
}

func (r *Registry) register(ty reflect.Type, h hooks, kinds []Kind) error {
	kinds, err := normalizeKinds(kinds)
	if err != nil {
		return err
	}

	if h.empty() {
		return errors.Newf("archive: no hooks given for type %q", ty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, kind := range kinds {
		if err := h.validate(ty, kind); err != nil {
			return err
		}

		methods, err := methodHooks(ty, kind)
		if err != nil {
			return err
		}

		if _, err := mergeHooks(ty, kind, h, methods); err != nil {
			return err
		}

		// a registered serialize hook and registered save/load hooks exclude each other
		if existing, ok := r.hooks[traitKey{ty, kind}]; ok {
			if existing.serialize != nil && h.save != nil || existing.save != nil && h.serialize != nil {
				return AmbiguousTraitError{Type: ty, Kind: kind}
			}
		}
	}

	for _, kind := range kinds {
		r.hooks[traitKey{ty, kind}] = h
	}

	r.invalidate()

	Logger().Debug("registered hooks",
		zap.Stringer("type", ty),
		zap.Stringers("kinds", kinds),
	)

	return nil
}

func (r *Registry) markTrivial(ty reflect.Type, kinds []Kind) error {
	kinds, err := normalizeKinds(kinds)
	if err != nil {
		return err
	}

	if err := checkTrivialLayout(ty); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, kind := range kinds {
		r.trivial[traitKey{ty, kind}] = struct{}{}
	}

	r.invalidate()

	Logger().Debug("marked trivial",
		zap.Stringer("type", ty),
		zap.Stringers("kinds", kinds),
	)

	return nil
}

// invalidate drops all resolved strategies. The caller holds mu.
func (r *Registry) invalidate() {
	r.generation++
	r.cache.Clear()
}

func (r *Registry) currentGeneration() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.generation
}

// store caches st unless hooks were registered since generation was read.
func (r *Registry) store(key traitKey, st *strategy, generation uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.generation == generation {
		r.cache.Store(key, st)
	}
}

func (r *Registry) registeredHooks(ty reflect.Type, kind Kind) hooks {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.hooks[traitKey{ty, kind}]
}

func (r *Registry) markedTrivial(ty reflect.Type, kind Kind) bool {
	// numbers are plain data in every binary archive
	if kind == KindBinary && isNumericKind(ty.Kind()) {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.trivial[traitKey{ty, kind}]
	return ok
}

func (r *Registry) strategyFor(ty reflect.Type, kind Kind) (*strategy, error) {
	return r.strategyOf(typeSet{}, ty, kind)
}

func (r *Registry) strategyOf(inConstruction typeSet, ty reflect.Type, kind Kind) (*strategy, error) {
	key := traitKey{Type: ty, Kind: kind}

	if cached, ok := r.cache.Load(key); ok {
		return cached.(*strategy), nil
	}

	if _, ok := inConstruction[key]; ok {
		// detected a cycle. return a strategy that resolves the type again when executed,
		// by then the actual strategy is in the cache.
		lazy := func(a Archive, v reflect.Value) error {
			st, err := r.strategyFor(ty, kind)
			if err != nil {
				return err
			}

			return st.run(a, v)
		}

		return &strategy{resolution: resolvedPending, save: lazy, load: lazy}, nil
	}

	inConstruction[key] = struct{}{}

	generation := r.currentGeneration()

	st, err := r.makeStrategy(inConstruction, ty, kind)
	if err != nil {
		return nil, err
	}

	r.store(key, st, generation)

	Logger().Debug("resolved strategy",
		zap.Stringer("type", ty),
		zap.Stringer("kind", kind),
		zap.Stringer("resolution", st.resolution),
	)

	return st, nil
}

func (r *Registry) makeStrategy(inConstruction typeSet, ty reflect.Type, kind Kind) (*strategy, error) {
	methods, err := methodHooks(ty, kind)
	if err != nil {
		return nil, err
	}

	h, err := mergeHooks(ty, kind, r.registeredHooks(ty, kind), methods)
	if err != nil {
		return nil, err
	}

	switch {
	case h.save != nil:
		return &strategy{resolution: ResolvedSaveLoad, save: h.save, load: h.load}, nil

	case h.serialize != nil:
		return &strategy{resolution: ResolvedSerialize, save: h.serialize, load: h.serialize}, nil
	}

	if kind == KindText {
		if st := textStrategyOf(ty); st != nil {
			return st, nil
		}
	}

	if r.markedTrivial(ty, kind) {
		return trivialStrategy(ty), nil
	}

	switch ty.Kind() {
	case reflect.String:
		return stringStrategy(), nil

	case reflect.Slice:
		return r.makeSliceStrategy(inConstruction, ty, kind)

	case reflect.Array:
		return r.makeArrayStrategy(inConstruction, ty, kind)

	case reflect.Map:
		return r.makeMapStrategy(inConstruction, ty, kind)

	case reflect.Pointer:
		return r.makePointerStrategy(inConstruction, ty, kind)

	default:
		return nil, NotSupportedError{Type: ty, Kind: kind}
	}
}

func trivialStrategy(ty reflect.Type) *strategy {
	size := int(ty.Size())

	copyValue := func(a Archive, v reflect.Value) error {
		return a.Packet(Packet{
			data:  bytesOf(v.Addr().UnsafePointer(), size),
			count: 1,
			elem:  ty,
			fixed: true,
		})
	}

	return &strategy{resolution: ResolvedTrivial, save: copyValue, load: copyValue}
}
