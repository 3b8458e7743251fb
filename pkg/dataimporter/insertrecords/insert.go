package insertrecords

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/bussin/bussin/pkg/database"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Load decodes every yaml document in reader.
func Load(reader io.Reader) ([]InsertDefinition, error) {
	decoder := yaml.NewDecoder(reader)
	var definitions []InsertDefinition

	for {
		var insertDefinition InsertDefinition
		err := decoder.Decode(&insertDefinition)
		if errors.Is(err, io.EOF) {
			return definitions, nil
		}
		if err != nil {
			return nil, err
		}

		definitions = append(definitions, insertDefinition)
	}
}

// Insert upserts the definitions of every file under path.
func Insert(ctx context.Context, path string) (int, error) {
	inserted := 0

	err := filepath.Walk(path,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading insert-record file")

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			definitions, err := Load(file)
			if err != nil {
				return err
			}

			for _, insertDefinition := range definitions {
				if err := insertDefinition.Upsert(ctx, database.GetCollection(insertDefinition.Collection)); err != nil {
					log.Error().Err(err).Str("path", path).Msg("Insert definition update")
					continue
				}
				inserted++
			}

			return nil
		})

	return inserted, err
}
