package domain

// ProductPageSize is the fixed number of products returned per listing page.
const ProductPageSize = 5

// AllBrands disables the brand filter of a product listing.
const AllBrands = "all"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Brand groups products under a manufacturer name.
type Brand struct {
	ID   int64  `json:"id"   bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// Product is a read-only catalog entry.
type Product struct {
	ID          int64   `json:"id"           bson:"_id"`
	Model       string  `json:"model"        bson:"model"`
	BrandID     int64   `json:"brand_id"     bson:"brand_id"`
	Brand       *Brand  `json:"brand"        bson:"brand,omitempty"`
	Price       float64 `json:"price"        bson:"price"`
	ReleaseYear string  `json:"release_year" bson:"release_year"`
	Weight      int     `json:"weight"       bson:"weight"`
	Platform    string  `json:"platform"     bson:"platform"`
	Color       string  `json:"color"        bson:"color"`
	ScreenSize  float64 `json:"screen_size"  bson:"screen_size"`
	Storage     int     `json:"storage"      bson:"storage"`
	RAM         int     `json:"ram"          bson:"ram"`
	Cores       int     `json:"cores"        bson:"cores"`
	CameraMpx   int     `json:"camera_mpx"   bson:"camera_mpx"`
	Battery     int     `json:"battery"      bson:"battery"`
}

// BrandName returns the product's brand name, or "" when it has none.
func (p Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

// ProductQuery is a validated, normalized product listing request.
type ProductQuery struct {
	Brand string
	Order SortOrder
	Page  int
}

// DefaultProductQuery is the listing requested when no parameter is given.
func DefaultProductQuery() ProductQuery {
	return ProductQuery{Brand: AllBrands, Order: SortAsc, Page: 1}
}

// ProductPage is one window of a filtered, ordered product listing.
type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	LastPage int       `json:"last_page"`
	PageSize int       `json:"page_size"`
	Brands   []string  `json:"brands"`
}

// LastPage is ceil(total/size). It is 0 for an empty listing, which makes
// every page out of range.
func LastPage(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PageOffset returns the number of items preceding page.
func PageOffset(page, size int) int64 {
	if page < 1 {
		return 0
	}
	return int64(page-1) * int64(size)
}
