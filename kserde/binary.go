package kserde

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrNotAnObject = errors.New("kserde: binary payloads must encode a JSON object")

// BinarySerializer encodes t as a zstd compressed protobuf Struct holding the
// same document the JSON serializer would produce. T must marshal to a JSON
// object.
func BinarySerializer[T any]() Serializer[T] {
	return func(t T) ([]byte, error) {
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
			return nil, ErrNotAnObject
		}
		s, err := structpb.NewStruct(doc)
		if err != nil {
			return nil, fmt.Errorf("build struct: %w", err)
		}
		payload, err := proto.MarshalOptions{Deterministic: true}.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshal struct: %w", err)
		}
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(payload, nil), nil
	}
}

func BinaryDeserializer[T any]() Deserializer[T] {
	return func(b []byte) (T, error) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return *new(T), err
		}
		defer dec.Close()
		payload, err := dec.DecodeAll(b, nil)
		if err != nil {
			return *new(T), fmt.Errorf("decompress: %w", err)
		}
		var s structpb.Struct
		if err := proto.Unmarshal(payload, &s); err != nil {
			return *new(T), fmt.Errorf("unmarshal struct: %w", err)
		}
		raw, err := json.Marshal(s.AsMap())
		if err != nil {
			return *new(T), err
		}
		var deserialized T
		if err := json.Unmarshal(raw, &deserialized); err != nil {
			return *new(T), err
		}
		return deserialized, nil
	}
}

func Binary[T any]() Serde[T] {
	return Serde[T]{
		Serializer:   BinarySerializer[T](),
		Deserializer: BinaryDeserializer[T](),
	}
}
