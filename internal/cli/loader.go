package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/skein-lang/skein/internal/compiler"
	"github.com/skein-lang/skein/internal/theory"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeBuildFailed = "E003" // CUE build failed
	ErrCodeCompile     = "E004" // Document compilation failed
	ErrCodeNoTheory    = "E005" // No theory struct in document
	ErrCodeStore       = "E006" // Database error
)

// LoadError represents an error that occurred during document loading.
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

// LoadDocument reads a .cue theory document and compiles it. The document
// name on the returned theory is the file's base name.
func LoadDocument(path string) (*theory.Theory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading document: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	theoryVal := value.LookupPath(cue.ParsePath("theory"))
	if !theoryVal.Exists() {
		return nil, &LoadError{
			Code:    ErrCodeNoTheory,
			Message: fmt.Sprintf("no theory struct found in %s", path),
			Pos:     value.Pos(),
		}
	}

	th, err := compiler.CompileDocument(filepath.Base(path), theoryVal)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return th, nil
}

// convertCompileError converts a compiler error to a LoadError with
// position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompile,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeCompile,
		Message: err.Error(),
	}
}
