package handler

import (
	"fmt"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

func productURL(id int64) string { return fmt.Sprintf("/api/products/%d", id) }

// UserURL is the detail path of a user, also used as the Location of a
// created user.
func UserURL(id int64) string { return fmt.Sprintf("/api/users/%d", id) }

func toProductSummary(p domain.Product) productSummary {
	return productSummary{
		ID:    p.ID,
		Model: p.Model,
		Brand: p.BrandName(),
		Price: p.Price,
		Links: selfLinks{Self: link{Href: productURL(p.ID)}},
	}
}

func toProductDetail(p *domain.Product) productDetail {
	return productDetail{
		ID:          p.ID,
		Model:       p.Model,
		Brand:       p.BrandName(),
		Price:       p.Price,
		ReleaseYear: p.ReleaseYear,
		Weight:      p.Weight,
		Platform:    p.Platform,
		Color:       p.Color,
		ScreenSize:  p.ScreenSize,
		Storage:     p.Storage,
		RAM:         p.RAM,
		Cores:       p.Cores,
		CameraMpx:   p.CameraMpx,
		Battery:     p.Battery,
		Links:       selfLinks{Self: link{Href: productURL(p.ID)}},
	}
}

func toProductList(page *domain.ProductPage) productListResponse {
	data := make([]productSummary, 0, len(page.Items))
	for _, p := range page.Items {
		data = append(data, toProductSummary(p))
	}
	brands := page.Brands
	if brands == nil {
		brands = []string{}
	}
	return productListResponse{
		Meta: productListMeta{
			TotalPaginatedItems: page.Total,
			MaxItemsPerPage:     page.PageSize,
			LastPage:            page.LastPage,
			CurrentPage:         page.Page,
			CurrentPageItems:    len(data),
			AvailableBrands:     brands,
		},
		Data: data,
	}
}

func toUserResponse(u *domain.User) userResponse {
	self := link{Href: UserURL(u.ID)}
	res := userResponse{
		ID:       u.ID,
		Username: u.Username,
		Roles:    u.Roles,
		Links:    userLinks{Self: self, Modify: self, Delete: self},
	}
	if res.Roles == nil {
		res.Roles = []string{}
	}
	if u.Owner != nil {
		res.Embedded = &userEmbedded{Owner: ownerSummary{
			ID:       u.Owner.ID,
			Username: u.Owner.Username,
			Links:    selfLinks{Self: link{Href: UserURL(u.Owner.ID)}},
		}}
	}
	return res
}

func toUserList(users []domain.User) userListResponse {
	data := make([]userResponse, 0, len(users))
	for i := range users {
		data = append(data, toUserResponse(&users[i]))
	}
	return userListResponse{Meta: userListMeta{TotalItems: len(data)}, Data: data}
}
