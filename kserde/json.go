package kserde

import (
	"bytes"
	"encoding/json"
	"errors"
)

var ErrTrailingData = errors.New("kserde: unexpected data after the JSON value")

func JSONSerializer[T any]() Serializer[T] {
	return func(t T) ([]byte, error) {
		serialized, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return serialized, nil
	}
}

// JSONIndentSerializer produces human readable, newline terminated output.
func JSONIndentSerializer[T any]() Serializer[T] {
	return func(t T) ([]byte, error) {
		serialized, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(serialized, '\n'), nil
	}
}

// JSONDeserializer rejects unknown fields and trailing data.
func JSONDeserializer[T any]() Deserializer[T] {
	return func(b []byte) (T, error) {
		var deserialized T
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&deserialized); err != nil {
			return *new(T), err
		}
		if dec.More() {
			return *new(T), ErrTrailingData
		}
		return deserialized, nil
	}
}

func JSON[T any]() Serde[T] {
	return Serde[T]{
		Serializer:   JSONSerializer[T](),
		Deserializer: JSONDeserializer[T](),
	}
}

func JSONIndent[T any]() Serde[T] {
	return Serde[T]{
		Serializer:   JSONIndentSerializer[T](),
		Deserializer: JSONDeserializer[T](),
	}
}
