package domain

type Hotel struct {
	ID           int64
	Name         string
	Address      Address
	GeoLat       float64
	GeoLng       float64
	Phone        string
	ImageURL     string
	Rating       *int // nil iff RatingCount == 0
	RatingCount  int
	CheapestRoom Room
	Distance     *float64 // set only when a geo filter was applied
}

type Address struct {
	Line1   string
	Line2   string
	City    string
	Zip     string
	Country string
}

type Room struct {
	ID        int64
	Title     string
	Surface   float64
	Price     float64
	Bedrooms  int
	Bathrooms int
	Type      string
}

// Owner is a candidate hotel as stored in wp_users.
type Owner struct {
	ID          int64
	DisplayName string
}

// Attribute keys every hotel owner carries in wp_usermeta.
const (
	MetaAddress1       = "address_1"
	MetaAddress2       = "address_2"
	MetaAddressCity    = "address_city"
	MetaAddressZip     = "address_zip"
	MetaAddressCountry = "address_country"
	MetaGeoLat         = "geo_lat"
	MetaGeoLng         = "geo_lng"
	MetaCoverImage     = "coverImage"
	MetaPhone          = "phone"
)

var RequiredMetaKeys = []string{
	MetaAddress1, MetaAddress2, MetaAddressCity, MetaAddressZip, MetaAddressCountry,
	MetaGeoLat, MetaGeoLng, MetaCoverImage, MetaPhone,
}

// wp_posts.post_type values: rooms and reviews are both posts authored by
// the hotel.
const (
	PostTypeRoom   = "room"
	PostTypeReview = "review"
)
