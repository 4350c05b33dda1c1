package mdtodoc

import (
	"context"
	"fmt"
)

// Hook names a stage of the compile pipeline extensions can transform.
type Hook string

const (
	HookPostInit   Hook = "postInit"   // {layout}
	HookPreCompile Hook = "preCompile" // {path, md}
	HookPreRender  Hook = "preRender"  // {path, title, body}
	HookPreInline  Hook = "preInline"  // {path, html}
	HookPreWrite   Hook = "preWrite"   // {path, html}
)

// Hooks lists every hook in pipeline order.
var Hooks = []Hook{HookPostInit, HookPreCompile, HookPreRender, HookPreInline, HookPreWrite}

// HookData is the record a hook receives and returns.
type HookData map[string]string

func (d HookData) clone() HookData {
	c := make(HookData, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// Extension hook interfaces. An extension implements any subset; missing
// hooks pass data through unchanged.
type (
	PostIniter interface {
		PostInit(ctx context.Context, data HookData) (HookData, error)
	}
	PreCompiler interface {
		PreCompile(ctx context.Context, data HookData) (HookData, error)
	}
	PreRenderer interface {
		PreRender(ctx context.Context, data HookData) (HookData, error)
	}
	PreInliner interface {
		PreInline(ctx context.Context, data HookData) (HookData, error)
	}
	PreWriter interface {
		PreWrite(ctx context.Context, data HookData) (HookData, error)
	}
)

// HookFunc is the signature shared by every hook.
type HookFunc func(ctx context.Context, data HookData) (HookData, error)

// HookFuncs builds an extension from plain functions. Nil fields are
// treated as missing hooks.
type HookFuncs struct {
	PostInitFunc   HookFunc
	PreCompileFunc HookFunc
	PreRenderFunc  HookFunc
	PreInlineFunc  HookFunc
	PreWriteFunc   HookFunc
}

func (h HookFuncs) lookup(hook Hook) HookFunc {
	switch hook {
	case HookPostInit:
		return h.PostInitFunc
	case HookPreCompile:
		return h.PreCompileFunc
	case HookPreRender:
		return h.PreRenderFunc
	case HookPreInline:
		return h.PreInlineFunc
	case HookPreWrite:
		return h.PreWriteFunc
	}
	return nil
}

// hookOf returns ext's implementation of hook, or nil.
func hookOf(ext any, hook Hook) HookFunc {
	switch e := ext.(type) {
	case HookFuncs:
		return e.lookup(hook)
	case *HookFuncs:
		return e.lookup(hook)
	case *ExecExtension:
		if !e.Implements(hook) {
			return nil
		}
		return func(ctx context.Context, data HookData) (HookData, error) {
			return e.Call(ctx, hook, data)
		}
	}

	switch hook {
	case HookPostInit:
		if e, ok := ext.(PostIniter); ok {
			return e.PostInit
		}
	case HookPreCompile:
		if e, ok := ext.(PreCompiler); ok {
			return e.PreCompile
		}
	case HookPreRender:
		if e, ok := ext.(PreRenderer); ok {
			return e.PreRender
		}
	case HookPreInline:
		if e, ok := ext.(PreInliner); ok {
			return e.PreInline
		}
	case HookPreWrite:
		if e, ok := ext.(PreWriter); ok {
			return e.PreWrite
		}
	}
	return nil
}

// ExtensionError reports a failing hook. A nil Err means the hook
// returned an invalid record.
type ExtensionError struct {
	Hook Hook
	Err  error
}

func (e *ExtensionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Extension returned an invalid object for %s hook.", e.Hook)
	}
	return fmt.Sprintf("Extension thrown an error during %s hook (%v).", e.Hook, e.Err)
}

// Unwrap returns ErrExtension and the hook's error, if any.
func (e *ExtensionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtension}
	}
	return []error{ErrExtension, e.Err}
}

// hookChain runs hooks of extensions in registration order.
type hookChain struct {
	extensions []any
}

// run passes data through every extension implementing hook. Each output
// must keep every input key with a non-empty value.
func (c *hookChain) run(ctx context.Context, hook Hook, data HookData) (HookData, error) {
	for _, ext := range c.extensions {
		fn := hookOf(ext, hook)
		if fn == nil {
			continue
		}
		out, err := fn(ctx, data.clone())
		if err != nil {
			return nil, &ExtensionError{Hook: hook, Err: err}
		}
		if !validOutput(data, out) {
			return nil, &ExtensionError{Hook: hook}
		}
		data = out
	}
	return data, nil
}

func validOutput(in, out HookData) bool {
	if out == nil {
		return false
	}
	for k := range in {
		if out[k] == "" {
			return false
		}
	}
	return true
}

// implements reports whether any extension provides hook.
func (c *hookChain) implements(hook Hook) bool {
	for _, ext := range c.extensions {
		if hookOf(ext, hook) != nil {
			return true
		}
	}
	return false
}
