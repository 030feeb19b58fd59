package domain

import "context"

// Raw shapes read from the key/value schema. Values stay as the strings
// stored in meta_value; parsing happens once, in the assembler.

type ReviewAggregate struct {
	Rating *int
	Count  int
}

type RoomRow struct {
	ID        int64
	Title     string
	Surface   string
	Price     string
	Bedrooms  string
	Bathrooms string
	Type      string
}

type HotelRow struct {
	ID       int64
	Name     string
	Meta     map[string]string
	Reviews  ReviewAggregate
	Room     RoomRow
	Distance *float64
}

// NumberPattern is the shape a numeric meta_value must have. It is written in
// the POSIX class syntax that both Go regexp and MySQL REGEXP accept, so the
// store can recognise the values the assembler would refuse.
const NumberPattern = `^[[:space:]]*[-+]?([0-9]+[.]?[0-9]*|[.][0-9]+)([eE][-+]?[0-9]+)?[[:space:]]*$`

// SeedWriter inserts a hotel and the posts it authors. Implementations write
// inside a transaction owned by the caller.
type SeedWriter interface {
	InsertHotel(ctx context.Context, name string, meta map[string]string) (int64, error)
	InsertPost(ctx context.Context, hotelID int64, postType, title string, meta map[string]string) (int64, error)
}
