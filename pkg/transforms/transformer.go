package transforms

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Transformer walks values and applies every matching definition to the
// structs it finds, descending through pointers and slices.
type Transformer struct {
	mu          sync.RWMutex
	definitions []*TransformDefinition
}

func NewTransformer(definitions ...*TransformDefinition) (*Transformer, error) {
	transformer := &Transformer{}

	for _, definition := range definitions {
		if err := transformer.Register(definition); err != nil {
			return nil, err
		}
	}

	return transformer, nil
}

func (t *Transformer) Register(definition *TransformDefinition) error {
	if err := definition.Compile(); err != nil {
		return err
	}

	t.mu.Lock()
	t.definitions = append(t.definitions, definition)
	t.mu.Unlock()

	return nil
}

func (t *Transformer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.definitions)
}

// LoadYAML registers every document of a multi-document yaml stream.
func (t *Transformer) LoadYAML(reader io.Reader) error {
	decoder := yaml.NewDecoder(reader)

	for {
		var definition TransformDefinition
		err := decoder.Decode(&definition)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := t.Register(&definition); err != nil {
			return err
		}
	}
}

// LoadDirectory registers the definitions of every yaml file under path.
func (t *Transformer) LoadDirectory(path string) error {
	return filepath.Walk(path,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || !(strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading transform file")

			transformYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			return t.LoadYAML(bytes.NewReader(transformYaml))
		})
}

// Transform applies the definitions to input, which should be a pointer or a
// slice of pointers so the changes are visible to the caller.
func (t *Transformer) Transform(input interface{}) {
	t.mu.RLock()
	definitions := t.definitions
	t.mu.RUnlock()

	if len(definitions) == 0 || input == nil {
		return
	}

	walk(definitions, reflect.ValueOf(input))
}

func walk(definitions []*TransformDefinition, value reflect.Value) {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return
		}
		walk(definitions, value.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			walk(definitions, value.Index(i))
		}
	case reflect.Struct:
		if !value.CanSet() {
			return
		}

		typeName := value.Type().String()
		for _, definition := range definitions {
			if definition.Matches(typeName, value) {
				definition.Apply(value)
			}
		}

		for i := 0; i < value.NumField(); i++ {
			if !value.Type().Field(i).IsExported() {
				continue
			}

			field := value.Field(i)
			switch field.Kind() {
			case reflect.Pointer, reflect.Slice:
				walk(definitions, field)
			}
		}
	}
}
