// Package handlers contains the HTTP layer: a generic CRUD handler factory
// plus thin per-entity handlers that supply entity-specific hooks.
package handlers

import (
	"context"
	"net/http"

	"tourify/database/query"
	"tourify/database/repository"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WriteHooks customize the generic write handlers per entity. All hooks are
// optional.
type WriteHooks[T any] struct {
	// BeforeCreate runs after binding and before persistence; used for
	// defaulting foreign keys and derived fields.
	BeforeCreate func(c *gin.Context, doc *T) error
	// BeforePatch runs on the stripped update patch before persistence;
	// used for normalizing patched values.
	BeforePatch func(c *gin.Context, patch bson.M) error
	// AfterWrite runs after a successful create or update; used for
	// derived side effects such as rating recomputation.
	AfterWrite func(ctx context.Context, doc *T)
	// AfterDelete runs after a successful delete with the removed document.
	AfterDelete func(ctx context.Context, doc *T)
	// Strip lists payload fields silently removed from update patches.
	Strip []string
}

// parseID reads the :id route parameter as an ObjectID.
func parseID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, utils.WrapError(http.StatusBadRequest, "Invalid identifier", err)
	}
	return id, nil
}

// List returns the generic list handler. baseFilter, when set, derives a
// pre-filter from the request (for example restricting nested review routes
// to one tour); the URL query parameters drive filtering, sorting, field
// selection and pagination.
func List[T any](repo repository.Repository[T], baseFilter func(*gin.Context) bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		base := bson.M{}
		if baseFilter != nil {
			base = baseFilter(c)
		}

		features := query.New(c.Request.URL.Query()).
			Filter().
			Sort().
			LimitFields().
			Paginate()

		docs, err := repo.Find(c.Request.Context(), base, features)
		if err != nil {
			_ = c.Error(err)
			return
		}
		utils.SuccessList(c, len(docs), docs)
	}
}

// GetOne returns the generic get-by-ID handler, optionally eager-loading
// related collections.
func GetOne[T any](repo repository.Repository[T], lookups ...repository.Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		doc, err := repo.FindByID(c.Request.Context(), id, lookups...)
		if err != nil {
			_ = c.Error(err)
			return
		}
		utils.Success(c, http.StatusOK, doc)
	}
}

// CreateOne returns the generic create handler.
func CreateOne[T any](repo repository.Repository[T], hooks *WriteHooks[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc T
		if err := c.ShouldBindJSON(&doc); err != nil {
			_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
			return
		}

		if hooks != nil && hooks.BeforeCreate != nil {
			if err := hooks.BeforeCreate(c, &doc); err != nil {
				_ = c.Error(err)
				return
			}
		}

		created, err := repo.Create(c.Request.Context(), &doc)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if hooks != nil && hooks.AfterWrite != nil {
			hooks.AfterWrite(c.Request.Context(), created)
		}
		utils.Success(c, http.StatusCreated, created)
	}
}

// UpdateOne returns the generic partial-update handler. The new document is
// returned and field validators are re-run against it before the write.
func UpdateOne[T any](repo repository.Repository[T], hooks *WriteHooks[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
			return
		}

		patch := bson.M{}
		for k, v := range payload {
			patch[k] = v
		}
		if hooks != nil {
			for _, field := range hooks.Strip {
				delete(patch, field)
			}
		}
		if len(patch) == 0 {
			_ = c.Error(utils.BadRequest("Nothing to update"))
			return
		}
		if hooks != nil && hooks.BeforePatch != nil {
			if err := hooks.BeforePatch(c, patch); err != nil {
				_ = c.Error(err)
				return
			}
		}

		updated, err := repo.UpdateByID(c.Request.Context(), id, patch)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if hooks != nil && hooks.AfterWrite != nil {
			hooks.AfterWrite(c.Request.Context(), updated)
		}
		utils.Success(c, http.StatusOK, updated)
	}
}

// DeleteOne returns the generic delete handler. Success carries no body.
func DeleteOne[T any](repo repository.Repository[T], hooks *WriteHooks[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		// The removed document is only needed when a delete side effect
		// is registered.
		var doomed *T
		if hooks != nil && hooks.AfterDelete != nil {
			doomed, err = repo.FindByID(c.Request.Context(), id)
			if err != nil {
				_ = c.Error(err)
				return
			}
		}

		if err := repo.DeleteByID(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}

		if doomed != nil {
			hooks.AfterDelete(c.Request.Context(), doomed)
		}
		utils.NoContent(c)
	}
}
