package source

import "errors"

var UnsupportedSourceError = errors.New("unsupported data source for this query")
