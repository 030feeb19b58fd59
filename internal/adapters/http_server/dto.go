package httpserver

import "hotel_search/internal/domain"

type addressDTO struct {
	Line1   string `json:"address_1"`
	Line2   string `json:"address_2"`
	City    string `json:"address_city"`
	Zip     string `json:"address_zip"`
	Country string `json:"address_country"`
}

type roomDTO struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Surface   float64 `json:"surface"`
	Price     float64 `json:"price"`
	Bedrooms  int     `json:"bedrooms_count"`
	Bathrooms int     `json:"bathrooms_count"`
	Type      string  `json:"type"`
}

type hotelDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Address      addressDTO `json:"address"`
	GeoLat       float64    `json:"geo_lat"`
	GeoLng       float64    `json:"geo_lng"`
	Phone        string     `json:"phone"`
	CoverImage   string     `json:"coverImage"`
	Rating       *int       `json:"rating"`
	RatingCount  int        `json:"ratingCount"`
	CheapestRoom roomDTO    `json:"cheapestRoom"`
	Distance     *float64   `json:"distance,omitempty"`
}

type listResponse struct {
	Items    []hotelDTO `json:"items"`
	Count    int        `json:"count"`
	Strategy string     `json:"strategy"`
}

func toDTO(h domain.Hotel) hotelDTO {
	a, r := h.Address, h.CheapestRoom
	return hotelDTO{
		ID:           h.ID,
		Name:         h.Name,
		Address:      addressDTO{Line1: a.Line1, Line2: a.Line2, City: a.City, Zip: a.Zip, Country: a.Country},
		GeoLat:       h.GeoLat,
		GeoLng:       h.GeoLng,
		Phone:        h.Phone,
		CoverImage:   h.ImageURL,
		Rating:       h.Rating,
		RatingCount:  h.RatingCount,
		CheapestRoom: roomDTO{ID: r.ID, Title: r.Title, Surface: r.Surface, Price: r.Price, Bedrooms: r.Bedrooms, Bathrooms: r.Bathrooms, Type: r.Type},
		Distance:     h.Distance,
	}
}

func toListResponse(hs []domain.Hotel, strategy string) listResponse {
	items := make([]hotelDTO, 0, len(hs))
	for _, h := range hs {
		items = append(items, toDTO(h))
	}
	return listResponse{Items: items, Count: len(items), Strategy: strategy}
}
