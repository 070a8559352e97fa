package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relrdf/internal/compiler"
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/store"
)

// LoadResult contains a mapping loaded from a directory.
type LoadResult struct {
	Mapping   *compiler.Mapping
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during mapping loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeNoMapping   = "E007" // No mapping struct in the package

	// Mapping compile errors
	ErrCodeCompile = "E101"

	// Runtime errors
	ErrCodeDatabase = "E301" // Database could not be opened
	ErrCodePattern  = "E302" // Invalid pattern term
	ErrCodeQuery    = "E303" // Query execution failed
	ErrCodeQuota    = "E304" // More triples matched than --max-triples allows
)

// LoadMapping loads the CUE package in dir and compiles its mapping.
// Returns on the first error.
func LoadMapping(dir string) (*LoadResult, error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("mapping directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing mapping directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	mappingVal := value.LookupPath(cue.ParsePath("mapping"))
	if !mappingVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoMapping, Message: fmt.Sprintf("no mapping found in %s", dir)}
	}

	m, err := compiler.CompileMapping(mappingVal)
	if err != nil {
		return nil, convertCompileError(err)
	}

	return &LoadResult{
		Mapping:   m,
		CUEValue:  value,
		FileCount: len(cueFiles),
	}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		msg := compileErr.Message
		if compileErr.Field != "" {
			msg = compileErr.Field + ": " + msg
		}
		return &LoadError{
			Code:    ErrCodeCompile,
			Message: msg,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// loadErrorCode returns the code and message of a LoadMapping error.
func loadErrorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Pos.IsValid() {
			return loadErr.Code, fmt.Sprintf("%s:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Message)
		}
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// PatternOptions holds the --s/--p/--o flags.
type PatternOptions struct {
	Subject   string
	Predicate string
	Object    string
}

func (p *PatternOptions) register(flags interface {
	StringVar(*string, string, string, string)
}) {
	flags.StringVar(&p.Subject, "s", "", "subject term (default any)")
	flags.StringVar(&p.Predicate, "p", "", "predicate term (default any)")
	flags.StringVar(&p.Object, "o", "", "object term (default any)")
}

// Pattern parses the terms with the mapping's prefixes.
func (p *PatternOptions) Pattern(m *compiler.Mapping) (ir.Pattern, error) {
	s, err := compiler.ParseTerm(m.Prefixes, p.Subject)
	if err != nil {
		return ir.Pattern{}, fmt.Errorf("subject: %w", err)
	}
	pred, err := compiler.ParseTerm(m.Prefixes, p.Predicate)
	if err != nil {
		return ir.Pattern{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := compiler.ParseTerm(m.Prefixes, p.Object)
	if err != nil {
		return ir.Pattern{}, fmt.Errorf("object: %w", err)
	}
	return ir.NewPattern(s, pred, o), nil
}

// openStore opens an existing database. The store would silently create a
// missing file, so existence is checked first.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("--db is required")
	}
	if path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database not found: %s", path)
		}
	}
	return store.Open(path)
}
