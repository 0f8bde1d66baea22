package hcl

import "github.com/hashicorp/hcl/v2"

// taskArgs captures the raw body of a task's 'arguments' block. It stays
// undecoded until bind time, when the runner's input struct is known.
type taskArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// taskBlock is the HCL shape of a `task "name" { ... }` declaration.
type taskBlock struct {
	Name      string    `hcl:"name,label"`
	Runner    string    `hcl:"runner"`
	DependsOn []string  `hcl:"depends_on,optional"`
	Arguments *taskArgs `hcl:"arguments,block"`
}

// fileRoot decodes the top-level blocks of one grid file.
type fileRoot struct {
	Tasks  []*taskBlock `hcl:"task,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// TaskConfig is a loaded task declaration, decoupled from HCL specifics
// except for the still-raw arguments body.
type TaskConfig struct {
	Name      string
	Runner    string
	DependsOn []string
	// Arguments is nil when the declaration has no arguments block.
	Arguments hcl.Body
}
