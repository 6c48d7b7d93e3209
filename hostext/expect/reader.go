package expect

import (
	"os"

	"github.com/muesli/cancelreader"
)

// cancelReader is the subset of cancelreader.CancelReader this package
// depends on, named locally so process doesn't have to import
// cancelreader's package name directly in its field declarations.
type cancelReader interface {
	Read(p []byte) (int, error)
	Cancel() bool
}

func newCancelReader(f *os.File) (cancelReader, error) {
	return cancelreader.NewReader(f)
}
