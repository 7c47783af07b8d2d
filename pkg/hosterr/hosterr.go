// Package hosterr provides the host's error taxonomy: a Status code per
// the plugin-instance lifecycle failure modes, and an EnhancedError that
// wraps a Status with a component, category, and structured context for
// logging. A fluent builder keeps call sites terse.
package hosterr

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

// Status enumerates the failure modes a plugin instance or adapter call
// can report, mirroring the lifecycle transitions a PluginInstance goes
// through.
type Status string

const (
	StatusOK                       Status = "ok"
	StatusFailedToInstantiate      Status = "failed-to-instantiate"
	StatusFailedToConfigure        Status = "failed-to-configure"
	StatusFailedToStartProcessing  Status = "failed-to-start-processing"
	StatusFailedToStopProcessing   Status = "failed-to-stop-processing"
	StatusFailedToProcess          Status = "failed-to-process"
	StatusInvalidParameterOp       Status = "invalid-parameter-operation"
	StatusInsufficientMemory       Status = "insufficient-memory"
	StatusNotImplemented           Status = "not-implemented"
	StatusAlreadyInstantiated      Status = "already-instantiated"
	StatusNoInterface              Status = "no-interface"
)

// Category groups errors for logging/metrics, independent of Status.
type Category string

const (
	CategoryAdapter    Category = "adapter"
	CategoryNode       Category = "node"
	CategoryGraph      Category = "graph"
	CategoryTrack      Category = "track"
	CategorySequencer  Category = "sequencer"
	CategoryUMP        Category = "ump"
	CategoryCatalog    Category = "catalog"
	CategoryDevice     Category = "device"
	CategoryConfig     Category = "config"
	CategoryGeneric    Category = "generic"
)

// ComponentUnknown is used when no component was set on the error.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with a Status, Category, component name,
// and arbitrary structured context.
type EnhancedError struct {
	Err       error
	Status    Status
	Category  Category
	Component string
	Context   map[string]any
	Timestamp time.Time

	mu sync.RWMutex
}

func (e *EnhancedError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("[%s] %s", e.Status, e.Err)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Component, e.Status, e.Err)
}

// Unwrap supports errors.Is/errors.As against the wrapped error.
func (e *EnhancedError) Unwrap() error { return e.Err }

// Is reports equality by Status when compared against another
// *EnhancedError, else defers to errors.Is on the wrapped error.
func (e *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return e.Status == other.Status
	}
	return stderrors.Is(e.Err, target)
}

// GetContext returns a copy of the error's context map.
func (e *EnhancedError) GetContext() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.Context == nil {
		return nil
	}
	out := make(map[string]any, len(e.Context))
	maps.Copy(out, e.Context)
	return out
}

// Builder provides a fluent interface for constructing an EnhancedError.
type Builder struct {
	err       error
	status    Status
	category  Category
	component string
	context   map[string]any
}

// New starts a builder wrapping err.
func New(err error) *Builder {
	return &Builder{err: err, status: StatusFailedToProcess, category: CategoryGeneric}
}

// Newf starts a builder wrapping a formatted error.
func Newf(format string, args ...any) *Builder {
	return New(fmt.Errorf(format, args...))
}

func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

func (b *Builder) WithCategory(c Category) *Builder {
	b.category = c
	return b
}

func (b *Builder) WithComponent(component string) *Builder {
	b.component = component
	return b
}

func (b *Builder) WithContext(key string, value any) *Builder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

// Build finalizes the EnhancedError.
func (b *Builder) Build() *EnhancedError {
	component := b.component
	if component == "" {
		component = ComponentUnknown
	}
	return &EnhancedError{
		Err:       b.err,
		Status:    b.status,
		Category:  b.category,
		Component: component,
		Context:   b.context,
		Timestamp: time.Now(),
	}
}

// As is a thin re-export of errors.As for callers that only import hosterr.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is is a thin re-export of errors.Is.
func Is(err, target error) bool { return stderrors.Is(err, target) }
