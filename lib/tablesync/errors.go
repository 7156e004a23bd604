package tablesync

import "errors"

var (
	ErrConflictingModes    = errors.New("append and prepend are mutually exclusive")
	ErrMultiRowIncremental = errors.New("append and prepend take exactly one row")
	ErrIndexLength         = errors.New("new index length does not match the number of rows")
	ErrDuplicateIndex      = errors.New("rows share an index")
	ErrTableNotFound       = errors.New("page has no table")
	ErrMultipleTables      = errors.New("page has more than one table")
	// ErrUndecodable wraps the decode failure of an existing page table.
	// the page is never written when it is returned.
	ErrUndecodable = errors.New("existing table could not be decoded")
)
