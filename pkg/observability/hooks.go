// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about edits, layout passes, autosaves and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages stay
// free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetAutosaveHooks(&myAutosaveHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnMutation("delete_branch", true, tree.Len())
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the editor controller.
type EditorHooks interface {
	// OnMutation records an edit operation. changed is false when the
	// operation was a no-op (unknown node, root deletion, ...).
	OnMutation(op string, changed bool, nodeCount int)

	// OnDrag records a completed or cancelled drag of a node.
	OnDrag(nodeID string, cancelled bool)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	// OnLayout records a full layout pass over nodeCount nodes, of which
	// positioned were reachable from the root.
	OnLayout(nodeCount, positioned int, duration time.Duration)
}

// =============================================================================
// Autosave Hooks
// =============================================================================

// AutosaveHooks receives events from the periodic autosaver.
type AutosaveHooks interface {
	// OnSave records a snapshot write.
	OnSave(ctx context.Context, key string, size int, duration time.Duration, err error)

	// OnSkip records a tick whose snapshot was unchanged since the last save.
	OnSkip(ctx context.Context, key string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the layout service.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnMutation(string, bool, int) {}
func (NoopEditorHooks) OnDrag(string, bool)          {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayout(int, int, time.Duration) {}

// NoopAutosaveHooks is a no-op implementation of AutosaveHooks.
type NoopAutosaveHooks struct{}

func (NoopAutosaveHooks) OnSave(context.Context, string, int, time.Duration, error) {}
func (NoopAutosaveHooks) OnSkip(context.Context, string)                            {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks   EditorHooks   = NoopEditorHooks{}
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	autosaveHooks AutosaveHooks = NoopAutosaveHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetAutosaveHooks registers custom autosave hooks.
func SetAutosaveHooks(h AutosaveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		autosaveHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Autosave returns the registered autosave hooks.
func Autosave() AutosaveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return autosaveHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	layoutHooks = NoopLayoutHooks{}
	autosaveHooks = NoopAutosaveHooks{}
	httpHooks = NoopHTTPHooks{}
}
