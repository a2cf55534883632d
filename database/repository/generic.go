package repository

import (
	"context"
	"fmt"
	"reflect"

	"tourify/database/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the generic MongoDB implementation of Repository. A default read
// predicate (for example excluding secret tours or deactivated users) is
// composed into every read at this boundary, and an explicit validator runs
// on every create and update instead of hidden model hooks.
type Mongo[T any] struct {
	coll          *mongo.Collection
	defaultFilter bson.M
	validate      func(*T) error
}

// Option configures a generic Mongo repository.
type Option[T any] func(*Mongo[T])

// WithDefaultFilter composes a predicate into every default read.
func WithDefaultFilter[T any](filter bson.M) Option[T] {
	return func(r *Mongo[T]) { r.defaultFilter = filter }
}

// WithValidator sets the validation function re-run on create and update.
func WithValidator[T any](fn func(*T) error) Option[T] {
	return func(r *Mongo[T]) { r.validate = fn }
}

// NewMongo creates a generic repository over a collection.
func NewMongo[T any](coll *mongo.Collection, opts ...Option[T]) *Mongo[T] {
	r := &Mongo[T]{coll: coll}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collection exposes the underlying collection for entity-specific queries.
func (r *Mongo[T]) Collection() *mongo.Collection { return r.coll }

// readFilter merges the default predicate with request criteria.
func (r *Mongo[T]) readFilter(base bson.M) bson.M {
	filter := bson.M{}
	for k, v := range r.defaultFilter {
		filter[k] = v
	}
	for k, v := range base {
		filter[k] = v
	}
	return filter
}

// FindByID retrieves a document by its ID, applying the default read
// predicate. Lookups eager-load related collections via an aggregation.
func (r *Mongo[T]) FindByID(ctx context.Context, id primitive.ObjectID, lookups ...Lookup) (*T, error) {
	filter := r.readFilter(bson.M{"_id": id})

	if len(lookups) == 0 {
		var doc T
		if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: filter}}}
	for _, l := range lookups {
		pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
			"from":         l.From,
			"localField":   l.LocalField,
			"foreignField": l.ForeignField,
			"as":           l.As,
		}}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("lookup aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode lookup result: %w", err)
	}
	if len(docs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &docs[0], nil
}

// FindOne retrieves a single document matching the filter plus the default
// read predicate.
func (r *Mongo[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, r.readFilter(filter)).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindOneAny retrieves a single document without the default read predicate.
// Administrative lookups use this to resolve soft-deleted records.
func (r *Mongo[T]) FindOneAny(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Find lists documents matching the base filter combined with the query
// features built from URL parameters.
func (r *Mongo[T]) Find(ctx context.Context, base bson.M, features *query.Features) ([]T, error) {
	filter := r.readFilter(base)
	opts := options.Find()
	if features != nil {
		var ff bson.M
		ff, opts = features.Build()
		for k, v := range ff {
			// Request criteria never override the default predicate.
			if _, reservedKey := filter[k]; !reservedKey {
				filter[k] = v
			}
		}
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// Create validates and inserts a new document, returning the stored version.
func (r *Mongo[T]) Create(ctx context.Context, doc *T) (*T, error) {
	if r.validate != nil {
		if err := r.validate(doc); err != nil {
			return nil, err
		}
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return doc, nil
	}
	var stored T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to read back created document: %w", err)
	}
	return &stored, nil
}

// UpdateByID applies a partial update and returns the new document. The
// validator is re-run against the merged document before anything is written,
// and whatever it normalized (derived fields, clamped values) is persisted
// along with the patch.
func (r *Mongo[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*T, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := patch
	if r.validate != nil {
		merged, err := mergePatch(current, patch)
		if err != nil {
			return nil, err
		}
		if err := r.validate(merged); err != nil {
			return nil, err
		}
		set, err = changedFields(current, merged, patch)
		if err != nil {
			return nil, err
		}
		if len(set) == 0 {
			return current, nil
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	err = r.coll.FindOneAndUpdate(ctx, r.readFilter(bson.M{"_id": id}), bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteByID removes a document matching the default read predicate.
func (r *Mongo[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, r.readFilter(bson.M{"_id": id}))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// mergePatch overlays patch fields onto the current document so field
// validators can run against the value that would be stored.
func mergePatch[T any](current *T, patch bson.M) (*T, error) {
	doc, err := toDoc(current)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to merge update: %w", err)
	}
	var merged T
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("failed to merge update: %w", err)
	}
	return &merged, nil
}

// changedFields computes the $set document taking the validated merged
// document forward: every patched field in its stored (possibly normalized)
// form, plus any field the validator derived beyond the raw patch.
func changedFields[T any](current, merged *T, patch bson.M) (bson.M, error) {
	currentDoc, err := toDoc(current)
	if err != nil {
		return nil, err
	}
	mergedDoc, err := toDoc(merged)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for k, v := range patch {
		if k == "_id" {
			continue
		}
		// Prefer the stored form; a field the struct omits when empty
		// still keeps the client's explicit zero value.
		if mv, ok := mergedDoc[k]; ok {
			set[k] = mv
			continue
		}
		set[k] = v
	}
	for k, v := range mergedDoc {
		if k == "_id" {
			continue
		}
		if _, patched := set[k]; patched {
			continue
		}
		if !reflect.DeepEqual(currentDoc[k], v) {
			set[k] = v
		}
	}
	return set, nil
}

// toDoc round-trips a document struct through bson into its stored map form.
func toDoc[T any](v *T) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
