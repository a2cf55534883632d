package utils

import (
	"errors"
	"net/http"

	"tourify/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AppError is an operational error: expected, user-facing, and safe to show.
// Anything that is not an AppError (or one of the normalized store/token error
// shapes) is treated as a programming error and hidden behind a generic 500.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates an operational error with an HTTP status code.
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError { return NewAppError(http.StatusBadRequest, message) }

func Unauthorized(message string) *AppError { return NewAppError(http.StatusUnauthorized, message) }

func Forbidden(message string) *AppError { return NewAppError(http.StatusForbidden, message) }

func NotFound(message string) *AppError { return NewAppError(http.StatusNotFound, message) }

// WrapError attaches a cause to an operational error so that logs keep the
// underlying failure while clients only see the safe message.
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Normalize converts known persistence and token error shapes into operational
// errors. Unknown errors come back as a generic 500 AppError.
func Normalize(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if mongo.IsDuplicateKeyError(err) {
		return WrapError(http.StatusBadRequest, "Duplicate field value. Please use another value!", err)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return WrapError(http.StatusNotFound, "No document found with this ID", err)
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return WrapError(http.StatusBadRequest, "Invalid identifier", err)
	}

	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorExpired != 0 {
			return WrapError(http.StatusUnauthorized, "Your token has expired! Please log in again.", err)
		}
		return WrapError(http.StatusUnauthorized, "Invalid token. Please log in again.", err)
	}

	return WrapError(http.StatusInternalServerError, "Something went very wrong!", err)
}

// statusWord maps an HTTP code to the response envelope status field.
func statusWord(code int) string {
	if code >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}

// ErrorHandler is the single funnel for handler failures. Handlers push errors
// into the gin context via c.Error and return; this middleware normalizes the
// last error, logs it, and renders the response envelope. It also recovers
// panics into generic 500 responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", r), zap.Stack("stack"))
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"status":  "error",
						"message": "Something went very wrong!",
					})
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := Normalize(err)

		logger := GetLogger()
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("Unexpected error", zap.Error(err), zap.String("path", c.FullPath()))
		} else {
			logger.Warn("Request failed", zap.Int("code", appErr.Code), zap.Error(err))
		}

		body := gin.H{
			"status":  statusWord(appErr.Code),
			"message": appErr.Message,
		}
		// Full detail is a debugging aid, never a production response.
		if !config.IsProduction() && appErr.Err != nil {
			body["detail"] = appErr.Err.Error()
		}
		c.JSON(appErr.Code, body)
	}
}
