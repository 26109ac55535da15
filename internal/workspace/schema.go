package workspace

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaURL = "workspace.schema.json"

//go:embed workspace.schema.json
var schemaSource []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaSource))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workspace schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to load workspace schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// validateSchema checks a decoded workspace document against the embedded
// schema. Only the first violation is reported, with its location.
func validateSchema(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	err = schema.Validate(doc)
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	location := "/" + strings.Join(leaf.InstanceLocation, "/")
	return fmt.Errorf("at '%s': %s", location, leaf.ErrorKind.LocalizedString(message.NewPrinter(language.English)))
}
