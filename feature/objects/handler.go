package objects

import (
	"errors"
	"strconv"

	"s3bridge/core/credentials"
	"s3bridge/core/failure"
	"s3bridge/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Override headers.
const (
	HeaderEndpoint     = "X-S3-Endpoint"
	HeaderAccessKey    = "X-S3-Access-Key"
	HeaderSecretKey    = "X-S3-Secret-Key"
	HeaderSessionToken = "X-S3-Session-Token"
	HeaderRegion       = "X-S3-Region"
)

// Handler handles HTTP requests for object operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the object routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Put("/buckets/:bucket", h.HandleCreateBucket)
	app.Get("/exists/:bucket/*", h.HandleObjectExists)

	group := app.Group("/objects")
	group.Put("/:bucket/*", h.HandlePutObject)
	group.Get("/:bucket/*", h.HandleGetObject)
}

// HandleCreateBucket creates a bucket.
// @Summary Create Bucket
// @Description Creates a bucket. Fails when the bucket already exists.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Success 200 {object} map[string]bool "Created"
// @Failure 502 {object} map[string]string "Backend Error"
// @Router /buckets/{bucket} [put]
func (h *Handler) HandleCreateBucket(c *fiber.Ctx) error {
	bucket := c.Params("bucket")

	created, err := h.service.CreateBucket(bucket, overridesFromHeaders(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"created": created})
}

// HandleObjectExists checks whether an object exists.
// @Summary Object Exists
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 200 {object} map[string]bool "Existence"
// @Failure 403 {object} map[string]string "Access Denied"
// @Router /exists/{bucket}/{key} [get]
func (h *Handler) HandleObjectExists(c *fiber.Ctx) error {
	bucket, key := c.Params("bucket"), c.Params("*")
	if key == "" {
		return missingKey(c)
	}

	exists, err := h.service.ObjectExists(bucket, key, overridesFromHeaders(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"exists": exists})
}

// HandlePutObject uploads the request body as an object.
// @Summary Put Object
// @Description Stores the raw request body. The Content-Type header is forwarded.
// @Tags objects
// @Accept octet-stream
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 200 {object} map[string]string "ETag"
// @Failure 502 {object} map[string]string "Backend Error"
// @Failure 503 {object} map[string]string "Dispatch Failure"
// @Router /objects/{bucket}/{key} [put]
func (h *Handler) HandlePutObject(c *fiber.Ctx) error {
	bucket, key := c.Params("bucket"), c.Params("*")
	if key == "" {
		return missingKey(c)
	}

	var contentType *string
	if ct := c.Get(fiber.HeaderContentType); ct != "" {
		contentType = &ct
	}

	// The body buffer is reused by fiber once the handler returns.
	data := append([]byte(nil), c.Body()...)

	etag, err := h.service.PutObject(bucket, key, data, overridesFromHeaders(c), contentType)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"etag": etag})
}

// HandleGetObject downloads an object.
// @Summary Get Object
// @Tags objects
// @Produce octet-stream
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 200 {file} binary "Object payload"
// @Failure 502 {object} map[string]string "Backend Error"
// @Router /objects/{bucket}/{key} [get]
func (h *Handler) HandleGetObject(c *fiber.Ctx) error {
	bucket, key := c.Params("bucket"), c.Params("*")
	if key == "" {
		return missingKey(c)
	}

	data, err := h.service.GetObject(bucket, key, overridesFromHeaders(c))
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Send(data)
}

func missingKey(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object key is required"})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Object request failed", zap.Int("status", status), zap.Error(err))
	} else {
		l.Warn("Object request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor maps a failure to the HTTP status returned to clients.
func StatusFor(err error) int {
	var fe *failure.Error
	if !errors.As(err, &fe) {
		return fiber.StatusInternalServerError
	}
	switch fe.Kind {
	case failure.KindConfig:
		return fiber.StatusBadRequest
	case failure.KindNotFound:
		return fiber.StatusNotFound
	case failure.KindAccessDenied:
		return fiber.StatusForbidden
	case failure.KindDispatch:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

func overridesFromHeaders(c *fiber.Ctx) credentials.Overrides {
	header := func(name string) *string {
		v := c.Get(name)
		if v == "" {
			return nil
		}
		return &v
	}
	return credentials.Overrides{
		Endpoint:     header(HeaderEndpoint),
		AccessKey:    header(HeaderAccessKey),
		SecretKey:    header(HeaderSecretKey),
		SessionToken: header(HeaderSessionToken),
		Region:       header(HeaderRegion),
	}
}
