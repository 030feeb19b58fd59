package mysql

import (
	sq "github.com/Masterminds/squirrel"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
)

// Hotels are wp_users rows; their attributes live in wp_usermeta. Rooms and
// reviews are wp_posts authored by the hotel, told apart by post_type, with
// attributes in wp_postmeta.

const listOwnersSQL = `
SELECT ID, display_name
FROM wp_users
ORDER BY ID
`

const hotelMetaSQL = `
SELECT meta_key, meta_value
FROM wp_usermeta
WHERE user_id = ?
`

// Rounded on DECIMAL so both strategies round half away from zero alike.
const reviewAggregateExpr = "ROUND(AVG(CAST(meta.meta_value AS DECIMAL(10,4))))"

const hotelReviewsSQL = `
SELECT ` + reviewAggregateExpr + ` AS rating, COUNT(meta.meta_value) AS review_count
FROM wp_posts AS post
JOIN wp_postmeta AS meta ON meta.post_id = post.ID AND meta.meta_key = 'rating'
WHERE post.post_author = ? AND post.post_type = '` + domain.PostTypeReview + `'
`

const reviewsByHotelJoin = `(
  SELECT post.post_author AS hotel_id,
         ` + reviewAggregateExpr + ` AS rating,
         COUNT(meta.meta_value) AS review_count
  FROM wp_posts AS post
  JOIN wp_postmeta AS meta ON meta.post_id = post.ID AND meta.meta_key = 'rating'
  WHERE post.post_type = '` + domain.PostTypeReview + `'
  GROUP BY post.post_author
) AS reviews ON reviews.hotel_id = hotel.ID`

// Numbers are compared as DOUBLE, the float64 the assembler parses, so no
// rounding cast lets SQL and filter.Match disagree.
const priceExpr = "CAST(PriceData.meta_value AS DOUBLE)"

// roomColumns maps filter fields onto the room attribute joins of roomSelect.
// The type is compared under a binary collation: the default one folds case
// and accents, filter.Match does not.
var roomColumns = filter.Columns{
	filter.Surface:   "CAST(SurfaceData.meta_value AS DOUBLE)",
	filter.Price:     priceExpr,
	filter.Bedrooms:  "CAST(BedroomsData.meta_value AS DOUBLE)",
	filter.Bathrooms: "CAST(BathroomsData.meta_value AS DOUBLE)",
	filter.Type:      "TypeData.meta_value COLLATE utf8mb4_bin",
}

var roomFields = []string{
	"post.ID",
	"post.post_title",
	"SurfaceData.meta_value",
	"PriceData.meta_value",
	"BedroomsData.meta_value",
	"BathroomsData.meta_value",
	"TypeData.meta_value",
}

// cheapest first; equal prices fall back to the lowest room id
var cheapestOrder = []string{priceExpr + " ASC", "post.ID ASC"}

// roomSelect selects room posts joined with each attribute they are filtered on.
func roomSelect(columns ...string) sq.SelectBuilder {
	return sq.Select(columns...).
		From("wp_posts AS post").
		Join("wp_postmeta AS PriceData ON PriceData.post_id = post.ID AND PriceData.meta_key = 'price'").
		Join("wp_postmeta AS SurfaceData ON SurfaceData.post_id = post.ID AND SurfaceData.meta_key = 'surface'").
		Join("wp_postmeta AS TypeData ON TypeData.post_id = post.ID AND TypeData.meta_key = 'type'").
		Join("wp_postmeta AS BedroomsData ON BedroomsData.post_id = post.ID AND BedroomsData.meta_key = 'bedrooms_count'").
		Join("wp_postmeta AS BathroomsData ON BathroomsData.post_id = post.ID AND BathroomsData.meta_key = 'bathrooms_count'").
		Where(sq.Eq{"post.post_type": domain.PostTypeRoom})
}

func withPredicates(b sq.SelectBuilder, preds filter.Predicates) sq.SelectBuilder {
	if cond := preds.Sqlizer(roomColumns); cond != nil {
		b = b.Where(cond)
	}
	return b
}
