package server

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxPaginationLimit = 100

// errResponseWritten signals that the handler already wrote an error response
// to the client and the caller should just return nil up the chain.
var errResponseWritten = errors.New("error response written")

// Pagination holds parsed limit/offset query values.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit and offset query parameters, applying the given
// default limit and the global ceiling. Writes a 400 response and returns
// errResponseWritten on malformed values.
func parsePagination(c *fiber.Ctx, defaultLimit int) (Pagination, error) {
	p := Pagination{Limit: defaultLimit}

	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return p, respondValidation(c, "Invalid limit parameter")
		}
		p.Limit = v
	}
	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}

	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return p, respondValidation(c, "Invalid offset parameter")
		}
		p.Offset = v
	}

	return p, nil
}

// parseID parses a numeric path parameter. Writes a 400 response and returns
// errResponseWritten when the value is not a positive integer.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, respondValidation(c, "Invalid "+humanizeParam(param))
	}
	return uint(v), nil
}

func respondValidation(c *fiber.Ctx, msg string) error {
	if err := models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError(msg)); err != nil {
		return err
	}
	return errResponseWritten
}

// humanizeParam turns a path parameter name like "postID" into "post ID".
func humanizeParam(param string) string {
	words := splitCamel(param)
	for i, w := range words {
		if strings.EqualFold(w, "id") {
			words[i] = "ID"
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(s string) []string {
	var words []string
	var current strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(unicode.ToLower(r))
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// currentUserID reads the authenticated user ID stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// errSilence converts the response-written sentinel into a nil return so Fiber
// does not invoke the global error handler a second time.
func errSilence(err error) error {
	if errors.Is(err, errResponseWritten) {
		return nil
	}
	return err
}

// readFormFile reads a multipart upload into memory. Returns nil content with
// a nil error when the field is absent so callers can treat it as optional.
func readFormFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return content, fh.Filename, nil
}

// mapServiceError translates an application error into the matching HTTP
// response. Ownership violations surface as 403, missing credentials as 401.
func mapServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			status := fiber.StatusForbidden
			if currentUserID(c) == 0 {
				status = fiber.StatusUnauthorized
			}
			return models.RespondWithError(c, status, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
