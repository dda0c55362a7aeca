package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

func ptr(s string) *string { return &s }

func paths(vs []domain.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.PropertyPath)
	}
	return out
}

func violationsOf(t *testing.T, err error) []domain.Violation {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Violations
}

func TestProductQuery_Defaults(t *testing.T) {
	q, err := New().ProductQuery(ProductQueryParams{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProductQuery(), q)
}

func TestProductQuery_ExplicitValues(t *testing.T) {
	q, err := New().ProductQuery(ProductQueryParams{Brand: ptr("Sam"), Order: ptr("desc"), Page: ptr("3")})
	require.NoError(t, err)
	assert.Equal(t, domain.ProductQuery{Brand: "Sam", Order: domain.SortDesc, Page: 3}, q)
}

func TestProductQuery_InvalidPage(t *testing.T) {
	e := New()
	for _, page := range []string{"0", "01", "-1", "abc", "1.5", ""} {
		_, err := e.ProductQuery(ProductQueryParams{Page: ptr(page)})
		vs := violationsOf(t, err)
		assert.Equal(t, []string{"page"}, paths(vs), "page=%q", page)
	}
}

func TestProductQuery_PageOverflowSaturates(t *testing.T) {
	q, err := New().ProductQuery(ProductQueryParams{Page: ptr("99999999999999999999999")})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, q.Page)
}

func TestProductQuery_OverflowingPageDoesNotHideOtherViolations(t *testing.T) {
	_, err := New().ProductQuery(ProductQueryParams{Brand: ptr(""), Page: ptr("99999999999999999999")})
	vs := violationsOf(t, err)
	assert.Equal(t, []string{"brand"}, paths(vs))
}

func TestProductQuery_WhitespaceBrandIsAccepted(t *testing.T) {
	q, err := New().ProductQuery(ProductQueryParams{Brand: ptr(" ")})
	require.NoError(t, err)
	assert.Equal(t, " ", q.Brand)
}

func TestProductQuery_CollectsAllViolations(t *testing.T) {
	_, err := New().ProductQuery(ProductQueryParams{Brand: ptr(""), Order: ptr("up"), Page: ptr("0")})
	vs := violationsOf(t, err)
	assert.ElementsMatch(t, []string{"brand", "order", "page"}, paths(vs))
}

func TestNewUser_Valid(t *testing.T) {
	assert.Empty(t, New().NewUser("alice.b-c_d", "Passw0rd!"))
}

func TestNewUser_UsernameRules(t *testing.T) {
	e := New()
	for _, name := range []string{"", "   ", "ab", strings.Repeat("a", 181), "bad name", "é-user"} {
		vs := e.NewUser(name, "Passw0rd!")
		assert.Equal(t, []string{"username"}, paths(vs), "username=%q", name)
	}
	assert.Empty(t, e.NewUser(strings.Repeat("a", 180), "Passw0rd!"))
}

func TestNewUser_CombinedViolations(t *testing.T) {
	vs := New().NewUser("x", "short")
	assert.ElementsMatch(t, []string{"username", "password"}, paths(vs))
}

func TestPassword(t *testing.T) {
	e := New()
	assert.Empty(t, e.Password("12345678"))
	assert.Equal(t, []string{"password"}, paths(e.Password("1234567")))
	assert.Equal(t, []string{"password"}, paths(e.Password(strings.Repeat("p", 256))))
	assert.Equal(t, []string{"password"}, paths(e.Password("")))
}
