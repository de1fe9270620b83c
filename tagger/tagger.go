// Package tagger creates the Encoder matching a configuration.
//
// Example:
//
//	config, err := api.LoadConfigFile("tagger.yaml")
//	if err != nil {
//		return err
//	}
//	encoder, err := tagger.New(config)
//	if err != nil {
//		return err
//	}
//	result := encoder.Encode(tokens, entities)
package tagger

import (
	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/gomlx/go-nertags/tagger/columns"
	"github.com/gomlx/go-nertags/tagger/layered"
)

// New returns the columns tagger for the FixedTypeColumns strategy, and the hierarchical (layered) tagger
// for every other strategy.
func New(config *api.Config) (api.Encoder, error) {
	if config.Strategy == api.FixedTypeColumns {
		encoder, err := columns.New(config)
		if err != nil {
			return nil, err
		}
		return encoder, nil
	}
	encoder, err := layered.New(config)
	if err != nil {
		return nil, err
	}
	return encoder, nil
}

// ColumnNames returns the header of a result's columns: the type names for the columns tagger, and
// nil for the hierarchical tagger, whose columns are anonymous.
func ColumnNames(result api.Result) []string {
	if named, ok := result.(interface{ ColumnNames() []string }); ok {
		return named.ColumnNames()
	}
	return nil
}
