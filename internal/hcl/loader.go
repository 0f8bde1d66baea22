// Package hcl loads task grid declarations from HCL files into the
// format-agnostic TaskConfig model consumed by the app layer.
package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/fsutil"
)

// Loader parses grid files. It holds one hclparse.Parser so diagnostics can
// reference source ranges across files.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new grid file loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads every .hcl file under the given path (a single file or a
// directory) and returns the declared tasks in file-then-declaration order.
// Name collisions and dependency validity are not checked here; the
// dependency graph is the single validator for those.
func (l *Loader) Load(ctx context.Context, path string) ([]*TaskConfig, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindGridFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered grid files.", "count", len(files))

	var tasks []*TaskConfig
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse grid file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode grid file %s: %w", file, diags)
		}

		for _, block := range root.Tasks {
			cfg := &TaskConfig{
				Name:      block.Name,
				Runner:    block.Runner,
				DependsOn: block.DependsOn,
			}
			if block.Arguments != nil {
				cfg.Arguments = block.Arguments.Body
			}
			tasks = append(tasks, cfg)
		}
	}

	logger.Debug("Grid loading complete.", "task_count", len(tasks))
	return tasks, nil
}

// EvalContext builds the evaluation context available to task arguments.
// It exposes the process environment as env.NAME strings.
func EvalContext() *hcl.EvalContext {
	envVars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			envVars[k] = cty.StringVal(v)
		}
	}
	env := cty.MapValEmpty(cty.String)
	if len(envVars) > 0 {
		env = cty.MapVal(envVars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

// DecodeArguments decodes a task's raw arguments body into the runner's
// input struct. A nil body decodes as an empty block so runners with only
// optional inputs work without an arguments block.
func DecodeArguments(body hcl.Body, evalCtx *hcl.EvalContext, target any) error {
	if target == nil {
		return nil
	}
	if body == nil {
		body = hcl.EmptyBody()
	}
	if diags := gohcl.DecodeBody(body, evalCtx, target); diags.HasErrors() {
		return fmt.Errorf("decoding arguments: %w", diags)
	}
	return nil
}
