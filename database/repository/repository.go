// Package repository provides the generic MongoDB-backed persistence layer.
// Each entity package wraps the generic implementation with its own indexes
// and query helpers.
package repository

import (
	"context"

	"tourify/database/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookup describes an eager-load of a related collection applied on get-one
// reads, the document-store equivalent of populating a relation.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

// Repository is the capability set the generic handlers are parameterized
// over: lookup by ID, filtered listing, create, update-returning-new, delete.
type Repository[T any] interface {
	FindByID(ctx context.Context, id primitive.ObjectID, lookups ...Lookup) (*T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	Find(ctx context.Context, base bson.M, features *query.Features) ([]T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*T, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}
