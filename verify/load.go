package verify

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/dop251/goja"
	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/errors"
	"github.com/speakeasy-api/openapi-stubgen/tree"
)

const (
	// FetchModule is the module name the stubs import their HTTP client from.
	FetchModule = "node-fetch"

	// ErrNetworkDisabled is the default Fetcher's answer to every request.
	ErrNetworkDisabled = errors.Error("network access is disabled during verification")
)

// Request is a call made by a stub through the fetch shim.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// Response is what the fetch shim resolves with. Body is returned from response.json().
type Response struct {
	Status int
	Body   any
}

// Fetcher serves the requests stubs make while loaded.
type Fetcher func(req Request) (*Response, error)

func offline(Request) (*Response, error) {
	return nil, ErrNetworkDisabled
}

// Option configures Load.
type Option func(*Runtime)

// WithFetcher replaces the default fetch shim, which rejects every request.
func WithFetcher(f Fetcher) Option {
	return func(rt *Runtime) {
		if f != nil {
			rt.fetcher = f
		}
	}
}

// WithLogger sets the logger that receives load progress.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// Runtime is a loaded module tree. It is NOT safe for concurrent use.
type Runtime struct {
	vm      *goja.Runtime
	fetcher Fetcher
	logger  *slog.Logger

	sources map[string]string
	modules map[string]*goja.Object
}

// Load executes the aggregator of t, and through its requires every module it exposes, the way
// a CommonJS host would. Modules are keyed by their slash separated location; "" is the root.
// Cancelling ctx interrupts any running script.
func Load(ctx context.Context, t *tree.Tree, opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		vm:      goja.New(),
		fetcher: offline,
		logger:  slog.New(slog.DiscardHandler),
		sources: make(map[string]string, len(t.Artifacts)+1),
		modules: map[string]*goja.Object{},
	}
	for _, opt := range opts {
		opt(rt)
	}

	for _, a := range t.Artifacts {
		rt.sources[a.Location()] = a.Content()
	}
	rt.sources[t.Index.Location()] = t.Index.Content()

	if err := ctx.Err(); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	defer rt.vm.ClearInterrupt()
	stop := rt.interruptOn(ctx)
	defer stop()

	if _, err := rt.require(""); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	// Also load anything the aggregator does not reach.
	for _, a := range t.Artifacts {
		if _, err := rt.require(a.Location()); err != nil {
			return nil, ErrLoad.Wrap(err)
		}
	}

	rt.logger.Debug("module tree loaded", "modules", len(rt.modules))
	return rt, nil
}

// interruptOn interrupts the VM once ctx is done. stop unregisters the callback and, when it
// already fired, waits for the interrupt to be delivered so a following ClearInterrupt sees it.
func (rt *Runtime) interruptOn(ctx context.Context) (stop func()) {
	fired := make(chan struct{})
	unregister := context.AfterFunc(ctx, func() {
		defer close(fired)
		rt.vm.Interrupt(ctx.Err())
	})
	return func() {
		if !unregister() {
			<-fired
		}
	}
}

// VM exposes the underlying JavaScript runtime.
func (rt *Runtime) VM() *goja.Runtime {
	return rt.vm
}

// Exports returns module.exports of the module at location.
func (rt *Runtime) Exports(location string) (goja.Value, bool) {
	m, ok := rt.modules[location]
	if !ok {
		return nil, false
	}
	return m.Get("exports"), true
}

// Call invokes the stub for method exported by the module at location and waits for its
// promise to settle. GET stubs take no argument; body is passed to every other method.
func (rt *Runtime) Call(ctx context.Context, location, method string, body any) (any, error) {
	exports, ok := rt.Exports(location)
	if !ok {
		return nil, ErrLoad.Wrapf("no module at %q", location)
	}

	target := exports
	var args []goja.Value
	if method != apidoc.MethodGet {
		target = exports.ToObject(rt.vm).Get(method)
		args = append(args, rt.vm.ToValue(body))
	}

	fn, ok := goja.AssertFunction(target)
	if !ok {
		return nil, ErrLoad.Wrapf("%s does not export a %s function", location, method)
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	defer rt.vm.ClearInterrupt()
	stop := rt.interruptOn(ctx)
	defer stop()

	v, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	p, ok := v.Export().(*goja.Promise)
	if !ok {
		return v.Export(), nil
	}

	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result().Export(), nil
	case goja.PromiseStateRejected:
		return nil, ErrLoad.Wrapf("%s %s rejected: %s", method, location, p.Result().String())
	default:
		return nil, ErrLoad.Wrapf("%s %s did not settle", method, location)
	}
}

func (rt *Runtime) require(location string) (goja.Value, error) {
	if m, ok := rt.modules[location]; ok {
		return m.Get("exports"), nil
	}

	src, ok := rt.sources[location]
	if !ok {
		return nil, fmt.Errorf("cannot find module %q", "./"+location)
	}

	file := path.Join(location, "index.js")
	wrapped := "(function(module, exports, require) {\n" + src + "\n})"

	fnValue, err := rt.vm.RunScript(file, wrapped)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", file, err)
	}
	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return nil, fmt.Errorf("compiling %s: wrapper is not a function", file)
	}

	module := rt.vm.NewObject()
	exports := rt.vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	rt.modules[location] = module

	if _, err := fn(goja.Undefined(), module, exports, rt.vm.ToValue(rt.requireFrom(location))); err != nil {
		delete(rt.modules, location)
		return nil, fmt.Errorf("executing %s: %w", file, err)
	}

	rt.logger.Debug("module loaded", "location", location)
	return module.Get("exports"), nil
}

// requireFrom returns the require function handed to the module at location.
func (rt *Runtime) requireFrom(location string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()

		if name == FetchModule {
			return rt.vm.ToValue(rt.fetch)
		}
		if !strings.HasPrefix(name, "./") && !strings.HasPrefix(name, "../") {
			panic(rt.vm.NewGoError(fmt.Errorf("cannot find module %q", name)))
		}

		target := path.Join(location, name)
		if target == "." {
			target = ""
		}

		v, err := rt.require(target)
		if err != nil {
			panic(rt.vm.NewGoError(err))
		}
		return v
	}
}

// fetch is the node-fetch shim: fetch(url, init) resolves with an object exposing status and json().
func (rt *Runtime) fetch(call goja.FunctionCall) goja.Value {
	req := Request{URL: call.Argument(0).String(), Method: "GET", Headers: map[string]string{}}

	if init, ok := call.Argument(1).Export().(map[string]any); ok {
		if m, ok := init["method"].(string); ok {
			req.Method = m
		}
		if h, ok := init["headers"].(map[string]any); ok {
			for k, v := range h {
				req.Headers[k] = fmt.Sprint(v)
			}
		}
		if b, ok := init["body"].(string); ok {
			req.Body = b
		}
	}

	promise, resolve, reject := rt.vm.NewPromise()

	resp, err := rt.fetcher(req)
	if err != nil {
		reject(rt.vm.NewGoError(err))
		return rt.vm.ToValue(promise)
	}

	obj := rt.vm.NewObject()
	_ = obj.Set("status", resp.Status)
	_ = obj.Set("ok", resp.Status >= 200 && resp.Status < 300)
	_ = obj.Set("json", func(goja.FunctionCall) goja.Value {
		p, res, _ := rt.vm.NewPromise()
		res(resp.Body)
		return rt.vm.ToValue(p)
	})
	resolve(obj)

	return rt.vm.ToValue(promise)
}
