package formats

import (
	"io"

	"github.com/bussin/bussin/pkg/ctdf"
)

// Format is a third party dataset that can be parsed and converted into CTDF
// stops.
type Format interface {
	ParseFile(io.Reader) error
	ToCTDF(*ctdf.DataSource) []*ctdf.Stop
}
