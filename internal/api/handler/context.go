package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bilemo/catalog-api/internal/api/middleware"
	"github.com/bilemo/catalog-api/internal/core/domain"
)

// ctxPrincipal returns the caller injected by the Auth middleware. Its
// absence means the route was registered without Auth.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgTokenMissing)
	}
	return p, nil
}

// pathID parses the :id path parameter. Anything but a positive integer
// cannot name a resource, so it yields notFound.
func pathID(c echo.Context, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// optionalQuery returns nil when name is absent from the query string, and
// a pointer to its first value otherwise, even when empty.
func optionalQuery(c echo.Context, name string) *string {
	values, ok := c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// bindBody decodes the JSON body, reporting any decoding failure as
// domain.ErrMalformedBody.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return domain.ErrMalformedBody
	}
	return nil
}
