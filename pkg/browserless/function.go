// File: pkg/browserless/function.go
package browserless

import (
	"context"
	"strings"
	"time"
)

// Recognized function option paths for use with Set.
const (
	FunctionExecutionContext  = "executionContext"
	FunctionModules           = "modules"
	FunctionEvaluationTimeout = "evaluationTimeout"
	FunctionBrowserActions    = "browserActions"
	FunctionEvaluateBefore    = "evaluateBeforeCode"
	FunctionEvaluateAfter     = "evaluateAfterCode"
	FunctionDebugOptions      = "debugOptions"
	FunctionRetryOnFailure    = "retryOnFailure"
	FunctionFailureThreshold  = "failureThreshold"
	FunctionSetupScript       = "setupScript"
	FunctionTeardownScript    = "teardownScript"
	FunctionEnvironment       = "executionEnvironment"
	FunctionSecurityPolicy    = "securityPolicy"
)

// ExecuteFunction runs caller supplied JavaScript in a remote browser through
// POST /function and returns whatever the function returns.
type ExecuteFunction struct {
	core
	Settable[*ExecuteFunction]
	Authentication[*ExecuteFunction]
	CookieManagement[*ExecuteFunction]
	Navigation[*ExecuteFunction]
	PageOptions[*ExecuteFunction]
	QueryToggles[*ExecuteFunction]
}

// ExecuteFunction starts a function request.
func (c *Client) ExecuteFunction() *ExecuteFunction {
	f := &ExecuteFunction{core: newCore(c, FeatureFunction, endpointFunction, map[string]any{
		keyGotoOptions: map[string]any{},
	})}
	f.Settable = Settable[*ExecuteFunction]{bind(f, &f.core)}
	f.Authentication = Authentication[*ExecuteFunction]{bind(f, &f.core)}
	f.CookieManagement = CookieManagement[*ExecuteFunction]{bind(f, &f.core)}
	f.Navigation = Navigation[*ExecuteFunction]{bind(f, &f.core)}
	f.PageOptions = PageOptions[*ExecuteFunction]{bind(f, &f.core)}
	f.QueryToggles = QueryToggles[*ExecuteFunction]{bind(f, &f.core)}
	if c.inherit {
		c.global.seed(&f.core, false)
	}
	return f
}

// Code sets the function source, an ES module exporting a default async function.
func (f *ExecuteFunction) Code(code string) *ExecuteFunction {
	f.opts.Set(keyCode, code)
	return f
}

// Context sets the value passed to the function as its context argument.
func (f *ExecuteFunction) Context(ctx map[string]any) *ExecuteFunction {
	f.opts.Set(keyContext, ctx)
	return f
}

// Timeout is NavigationTimeout.
func (f *ExecuteFunction) Timeout(d time.Duration) *ExecuteFunction {
	return f.NavigationTimeout(d)
}

// AddModules appends module specifiers made available to the function.
func (f *ExecuteFunction) AddModules(modules ...string) *ExecuteFunction {
	for _, m := range modules {
		f.opts.Append(FunctionModules, m)
	}
	return f
}

// EvaluationTimeout bounds the function's own run time.
func (f *ExecuteFunction) EvaluationTimeout(d time.Duration) *ExecuteFunction {
	f.opts.Set(FunctionEvaluationTimeout, millis(d))
	return f
}

func (f *ExecuteFunction) EvaluateBeforeCode(code string) *ExecuteFunction {
	f.opts.Set(FunctionEvaluateBefore, code)
	return f
}

func (f *ExecuteFunction) EvaluateAfterCode(code string) *ExecuteFunction {
	f.opts.Set(FunctionEvaluateAfter, code)
	return f
}

// RetryOnFailure asks the service to retry the function. It is not retried locally.
func (f *ExecuteFunction) RetryOnFailure(opts map[string]any) *ExecuteFunction {
	f.opts.Set(FunctionRetryOnFailure, opts)
	return f
}

func (f *ExecuteFunction) FailureThreshold(n int) *ExecuteFunction {
	f.opts.Set(FunctionFailureThreshold, n)
	return f
}

// Send validates the request, posts it and returns the function result.
func (f *ExecuteFunction) Send(ctx context.Context) (*ExecuteFunctionResponse, error) {
	raw, err := f.post(ctx, func() error { return requireCode(&f.core) })
	if err != nil {
		return nil, err
	}
	return newExecuteFunctionResponse(raw), nil
}

func requireCode(c *core) error {
	code, _ := c.opts.Get(keyCode, nil).(string)
	if strings.TrimSpace(code) == "" {
		return invalidOptions(c.feature, "JavaScript code must be provided")
	}
	return nil
}
