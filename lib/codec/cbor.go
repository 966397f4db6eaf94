// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// MaxElements bounds arrays and maps on decode. A snapshot holds one
// array element per ticket.
const MaxElements = 1 << 20

var encoder, decoder = buildModes()

func buildModes() (cbor.EncMode, cbor.DecMode) {
	encodeOptions := cbor.CoreDetEncOptions()
	// Types that offer both forms, such as a struct embedding
	// time.Time, are written as text.
	encodeOptions.BinaryMarshaler = cbor.BinaryMarshalerNone
	encodeOptions.TextMarshaler = cbor.TextMarshalerTextString
	enc, err := encodeOptions.EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: building encoder: %v", err))
	}

	dec, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements:  MaxElements,
		MaxMapPairs:       MaxElements,
		DefaultMapType:    reflect.TypeOf(map[string]any(nil)),
		BinaryUnmarshaler: cbor.BinaryUnmarshalerNone,
		TextUnmarshaler:   cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("codec: building decoder: %v", err))
	}
	return enc, dec
}

// Marshal encodes v with core deterministic encoding.
func Marshal(v any) ([]byte, error) {
	return encoder.Marshal(v)
}

// Unmarshal decodes data into v. Unknown fields are ignored; duplicate
// map keys are an error.
func Unmarshal(data []byte, v any) error {
	return decoder.Unmarshal(data, v)
}

// Diagnose renders data in CBOR diagnostic notation, for debugging a
// stored snapshot.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
