package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNormalizePassesThroughAppErrors(t *testing.T) {
	orig := NotFound("No tour found with that ID")

	got := Normalize(orig)

	assert.Equal(t, orig, got)
}

func TestNormalizeMapsMissingDocuments(t *testing.T) {
	got := Normalize(mongo.ErrNoDocuments)

	assert.Equal(t, http.StatusNotFound, got.Code)
	assert.Equal(t, "No document found with this ID", got.Message)
}

func TestNormalizeMapsDuplicateKeys(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}

	got := Normalize(dup)

	assert.Equal(t, http.StatusBadRequest, got.Code)
	assert.Equal(t, "Duplicate field value. Please use another value!", got.Message)
}

func TestNormalizeDistinguishesExpiredTokens(t *testing.T) {
	expired := jwt.NewValidationError("token is expired", jwt.ValidationErrorExpired)
	malformed := jwt.NewValidationError("token contains an invalid number of segments", jwt.ValidationErrorMalformed)

	assert.Equal(t, "Your token has expired! Please log in again.", Normalize(expired).Message)
	assert.Equal(t, "Invalid token. Please log in again.", Normalize(malformed).Message)
	assert.Equal(t, http.StatusUnauthorized, Normalize(expired).Code)
	assert.Equal(t, http.StatusUnauthorized, Normalize(malformed).Code)
}

func TestNormalizeHidesProgrammingErrors(t *testing.T) {
	got := Normalize(errors.New("nil pointer somewhere deep"))

	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "Something went very wrong!", got.Message)
}

func TestStatusWord(t *testing.T) {
	assert.Equal(t, "fail", statusWord(http.StatusBadRequest))
	assert.Equal(t, "fail", statusWord(http.StatusNotFound))
	assert.Equal(t, "error", statusWord(http.StatusInternalServerError))
	assert.Equal(t, "error", statusWord(http.StatusBadGateway))
}
