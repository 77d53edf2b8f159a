package migrations

import (
	"bytes"
	"encoding/json"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// DecodeDocument parses a stored record, keeping numbers in their original text
func DecodeDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode character document")
	}
	if doc == nil {
		return nil, errors.DataLossf("character document is null")
	}
	return doc, nil
}

// EncodeDocument renders a document with sorted keys
func EncodeDocument(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode character document")
	}
	return data, nil
}
