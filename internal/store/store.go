package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrNotFound = errors.New("document not found")

// Document is one record of a collection, field name to value.
type Document map[string]interface{}

// Operator is a field comparison used by QueryByField.
type Operator string

const (
	OpEqual          Operator = "=="
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
)

// DocumentStore is the contract the storefront has with the remote
// document database: whole-document reads and writes, partial field
// merges and single-field range queries.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	SetDocument(ctx context.Context, collection, id string, fields Document) error
	UpdateFields(ctx context.Context, collection, id string, fields Document) error
	QueryByField(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Document, error)
}

// Decode maps a Document onto a struct with bson tags.
func Decode(doc Document, out interface{}) error {
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// Encode turns a bson-tagged struct into a Document.
func Encode(in interface{}) (Document, error) {
	raw, err := bson.Marshal(in)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return Document(doc), nil
}
