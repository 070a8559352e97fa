package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadDir loads the CUE package in dir and compiles its mapping struct.
func LoadDir(dir string) (*Mapping, error) {
	v, err := LoadValue(dir)
	if err != nil {
		return nil, err
	}
	return CompileMapping(v.LookupPath(cue.ParsePath("mapping")))
}

// LoadValue loads and builds the CUE package in dir.
func LoadValue(dir string) (cue.Value, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// CompileString compiles a mapping from CUE source text.
func CompileString(src string) (*Mapping, error) {
	v := cuecontext.New().CompileString(src)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileMapping(v.LookupPath(cue.ParsePath("mapping")))
}
