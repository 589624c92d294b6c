package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID    string            `json:"chain_id"`
	AppOptions streampay.Options `json:"app_options"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(err, "loading genesis file")
	}

	if err := json.Unmarshal(bytes, &gen); err != nil {
		return gen, errors.Wrap(err, "unmarshaling genesis file")
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...streampay.Initializer) streampay.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []streampay.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts streampay.Options, db streampay.KVStore) error {
	for _, init := range c.inits {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
