package registry

import (
	_ "embed"
	"sync"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var builtinLog = logger.New("registry:builtin")

//go:embed builtin.yaml
var builtinRegistryYAML []byte

// BuiltinSource is recorded as StepTypeDef.Source for built-in step types.
const BuiltinSource = "builtin"

var loadBuiltin = sync.OnceValues(func() (Registry, error) {
	builtinLog.Print("Compiling built-in step registry")
	return Parse(builtinRegistryYAML, BuiltinSource)
})

// Builtin returns the built-in step registry. The returned map is a fresh
// copy; the definitions it points to are shared and must not be modified.
func Builtin() (Registry, error) {
	reg, err := loadBuiltin()
	if err != nil {
		return nil, err
	}
	return reg.Clone(), nil
}

// MustBuiltin is like Builtin but panics if the embedded registry is broken.
func MustBuiltin() Registry {
	reg, err := Builtin()
	if err != nil {
		panic(err)
	}
	return reg
}
