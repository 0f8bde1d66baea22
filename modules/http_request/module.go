// Package http_request provides the 'http_request' runner, a thin task
// wrapper around an HTTP call.
package http_request

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the http_request runner.
type Input struct {
	URL     string `hcl:"url"`
	Method  string `hcl:"method,optional"`
	Body    string `hcl:"body,optional"`
	Timeout string `hcl:"timeout,optional"`
}

// Output is the value recorded in the run result for a completed request.
type Output struct {
	StatusCode int
	Body       string
}

// OnRunHTTPRequest is the handler for the 'http_request' runner. Any 2xx
// status is a success; everything else fails the task.
func OnRunHTTPRequest(ctx context.Context, input any) (any, error) {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	method := in.Method
	if method == "" {
		method = http.MethodGet
	}

	client := resty.New()
	defer client.Close()
	if in.Timeout != "" {
		timeout, err := time.ParseDuration(in.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", in.Timeout, err)
		}
		client.SetTimeout(timeout)
	}

	logger.Info("Making HTTP request.", "method", method, "url", in.URL)
	req := client.R().SetContext(ctx)
	if in.Body != "" {
		req.SetBody(in.Body)
	}
	resp, err := req.Execute(method, in.URL)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", in.URL, err)
	}

	logger.Info("Received HTTP response.", "status", resp.Status())
	if resp.IsError() {
		return nil, fmt.Errorf("request to %s returned %s", in.URL, resp.Status())
	}
	return &Output{StatusCode: resp.StatusCode(), Body: resp.String()}, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("http_request", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunHTTPRequest,
	})
}
