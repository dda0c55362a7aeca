package handler

import "github.com/bilemo/catalog-api/internal/core/domain"

// --- HAL building blocks ---

type link struct {
	Href string `json:"href"`
}

type selfLinks struct {
	Self link `json:"self"`
}

type userLinks struct {
	Self   link `json:"self"`
	Modify link `json:"modify"`
	Delete link `json:"delete"`
}

// --- Products ---

type productSummary struct {
	ID    int64     `json:"id"`
	Model string    `json:"model"`
	Brand string    `json:"brand"`
	Price float64   `json:"price"`
	Links selfLinks `json:"_links"`
}

type productDetail struct {
	ID          int64     `json:"id"`
	Model       string    `json:"model"`
	Brand       string    `json:"brand"`
	Price       float64   `json:"price"`
	ReleaseYear string    `json:"releaseYear"`
	Weight      int       `json:"weight"`
	Platform    string    `json:"platform"`
	Color       string    `json:"color"`
	ScreenSize  float64   `json:"screenSize"`
	Storage     int       `json:"storage"`
	RAM         int       `json:"ram"`
	Cores       int       `json:"cores"`
	CameraMpx   int       `json:"cameraMpx"`
	Battery     int       `json:"battery"`
	Links       selfLinks `json:"_links"`
}

type productListMeta struct {
	TotalPaginatedItems int64    `json:"totalPaginatedItems"`
	MaxItemsPerPage     int      `json:"maxItemsPerPage"`
	LastPage            int      `json:"lastPage"`
	CurrentPage         int      `json:"currentPage"`
	CurrentPageItems    int      `json:"currentPageItems"`
	AvailableBrands     []string `json:"availableBrands"`
}

type productListResponse struct {
	Meta productListMeta  `json:"meta"`
	Data []productSummary `json:"data"`
}

// --- Users ---

type ownerSummary struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Links    selfLinks `json:"_links"`
}

type userEmbedded struct {
	Owner ownerSummary `json:"owner"`
}

type userResponse struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Roles    []string      `json:"roles"`
	Links    userLinks     `json:"_links"`
	Embedded *userEmbedded `json:"_embedded,omitempty"`
}

type userListMeta struct {
	TotalItems int `json:"totalItems"`
}

type userListResponse struct {
	Meta userListMeta   `json:"meta"`
	Data []userResponse `json:"data"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// errorBody documents the error envelope for the API docs.
type errorBody struct {
	Code    int                `json:"code"`
	Message string             `json:"message,omitempty"`
	Errors  []domain.Violation `json:"errors,omitempty"`
}
