package syncer

import (
	"encoding/json"
	"os"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// LoadState classifies the outcome of loading a target document.
type LoadState int

const (
	// StateLoaded means the file exists and parsed as a JSON object.
	StateLoaded LoadState = iota

	// StateAbsent means the file does not exist. Absent is a safe empty
	// starting document; the target may be created.
	StateAbsent

	// StateParseError means the file exists but is not valid JSON.
	// Writing to such a target would destroy operator content that may still
	// be recoverable, so callers must not write.
	StateParseError
)

// LoadResult is the outcome of loading one config document.
// The three states are deliberately distinct: an absent file and a malformed
// file demand opposite handling.
type LoadResult struct {
	State LoadState
	Doc   format.Doc
	Err   error
}

// LoadDocument reads and parses the JSON document at path.
// An absent file yields StateAbsent with an empty document. A file that
// exists but does not parse yields StateParseError. Read errors other than
// non-existence are reported as StateParseError with the underlying error.
func LoadDocument(path string) LoadResult {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LoadResult{State: StateAbsent, Doc: format.Doc{}}
		}
		return LoadResult{State: StateParseError, Err: err}
	}

	var doc format.Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return LoadResult{
			State: StateParseError,
			Err:   errors.Wrapf(errors.ErrParse, "%s: %v", path, err),
		}
	}
	if doc == nil {
		doc = format.Doc{}
	}

	return LoadResult{State: StateLoaded, Doc: doc}
}
