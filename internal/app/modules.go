package app

import (
	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/modules/exec"
	"github.com/vk/taskgridgo/modules/http_request"
	"github.com/vk/taskgridgo/modules/print"
)

// coreModules is the default runner set shipped with the binary.
var coreModules = []registry.Module{
	&exec.Module{},
	&http_request.Module{},
	&print.Module{},
}
