package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/observability"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// MiddlewareConfig tunes the global middleware chain.
type MiddlewareConfig struct {
	Timeout     time.Duration
	CORSOrigins string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) {
	app.Use(requestid.New())
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				status, domainErr := classify(err)
				metrics.RecordError(c.Path(), c.Method(), string(domainErr.Kind))
				if status >= http.StatusInternalServerError {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
						zap.Error(domainErr))
				}
				err = writeError(c, status, domainErr)
			}
		}()
		return c.Next()
	}
}

// ErrorHandler renders errors that escape the middleware chain, such as
// body limit violations raised by fasthttp.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, domainErr := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("unhandled error", zap.Error(err))
		}
		return writeError(c, status, domainErr)
	}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden, apperrors.KindCrossDepartmentReassignment:
		return http.StatusForbidden
	case apperrors.KindInvalidTransition, apperrors.KindAlreadyResponded, apperrors.KindAlreadyRated,
		apperrors.KindAlreadyEscalated, apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation, apperrors.KindEmptyResponse:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func classify(err error) (int, *apperrors.DomainError) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, &apperrors.DomainError{Kind: kindForStatus(fiberErr.Code), Message: strings.ToLower(fiberErr.Message)}
	}
	domainErr := apperrors.ToDomainError(err)
	return StatusFor(domainErr.Kind), domainErr
}

func kindForStatus(status int) apperrors.Kind {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.KindUnauthenticated
	case http.StatusForbidden:
		return apperrors.KindForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperrors.KindNotFound
	case http.StatusConflict:
		return apperrors.KindConflict
	}
	if status < http.StatusInternalServerError {
		return apperrors.KindValidation
	}
	return apperrors.KindInternal
}

func writeError(c *fiber.Ctx, status int, domainErr *apperrors.DomainError) error {
	body := fiber.Map{
		"code":    domainErr.Kind,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 && status < http.StatusInternalServerError {
		body["details"] = domainErr.Details
	}
	return c.Status(status).JSON(fiber.Map{"error": body})
}
