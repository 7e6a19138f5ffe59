package util

import (
	"encoding/json"
	"os"
)

// ReadJSONFromFile reads and unmarshals a JSON snapshot -- the
// TransitData persistence Manager relies on in place of a real
// ingestion pipeline (see manager.go's buildTransitData).
func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, err
	}
	return value, nil
}

// WriteJSONToFile marshals value and writes it to file, overwriting
// any existing snapshot.
func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}
