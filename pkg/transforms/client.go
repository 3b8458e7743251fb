package transforms

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

var defaultTransformer = &Transformer{}

// SetupClient loads the transform definitions under path into the default
// transformer. A missing directory leaves it empty.
func SetupClient(path string) error {
	transformer := &Transformer{}

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("Transforms directory does not exist")
		} else if err := transformer.LoadDirectory(path); err != nil {
			return err
		}
	}

	defaultTransformer = transformer

	log.Info().Str("path", path).Int("definitions", transformer.Len()).Msg("Loaded transforms")

	return nil
}

func Default() *Transformer {
	return defaultTransformer
}

func Transform(input interface{}) {
	defaultTransformer.Transform(input)
}
