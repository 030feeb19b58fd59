package mysql

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
	"hotel_search/internal/geo"
)

func metaAlias(key string) string { return "m_" + key }

// SearchHotels runs the whole search as one grouped statement: hotel
// attributes joined by key, review aggregate per hotel, and the cheapest
// qualifying room per hotel. A geo filter becomes a computed distance column
// checked in HAVING, since it needs the hotel's own coordinates.
func (r *Repo) SearchHotels(ctx context.Context, preds filter.Predicates, g *domain.GeoFilter) ([]domain.HotelRow, error) {
	q, args, err := searchQuery(preds, g)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelRow
	for rows.Next() {
		row, err := scanHotelRow(rows, g != nil)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func searchQuery(preds filter.Predicates, g *domain.GeoFilter) (string, []any, error) {
	// one row per hotel: its cheapest qualifying room
	ranked := withPredicates(roomSelect(
		"post.post_author AS hotel_id",
		"post.ID AS room_id",
		"post.post_title AS title",
		"SurfaceData.meta_value AS surface",
		"PriceData.meta_value AS price",
		"BedroomsData.meta_value AS bedrooms",
		"BathroomsData.meta_value AS bathrooms",
		"TypeData.meta_value AS type",
		"ROW_NUMBER() OVER (PARTITION BY post.post_author ORDER BY "+priceExpr+" ASC, post.ID ASC) AS rn",
	), preds)
	rankedSQL, rankedArgs, err := ranked.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build cheapest room subquery: %w", err)
	}

	cols := []string{"hotel.ID", "ANY_VALUE(hotel.display_name) AS display_name"}
	for _, k := range domain.RequiredMetaKeys {
		a := metaAlias(k)
		cols = append(cols, fmt.Sprintf("ANY_VALUE(%s.meta_value) AS %s", a, a))
	}
	cols = append(cols,
		"ANY_VALUE(reviews.rating) AS rating",
		"COALESCE(ANY_VALUE(reviews.review_count), 0) AS review_count",
		"ANY_VALUE(cheapest.room_id) AS room_id",
		"ANY_VALUE(cheapest.title) AS title",
		"ANY_VALUE(cheapest.surface) AS surface",
		"ANY_VALUE(cheapest.price) AS price",
		"ANY_VALUE(cheapest.bedrooms) AS bedrooms",
		"ANY_VALUE(cheapest.bathrooms) AS bathrooms",
		"ANY_VALUE(cheapest.type) AS type",
	)

	b := sq.Select(cols...).From("wp_users AS hotel")
	if g != nil {
		lat := fmt.Sprintf("CAST(ANY_VALUE(%s.meta_value) AS DOUBLE)", metaAlias(domain.MetaGeoLat))
		lng := fmt.Sprintf("CAST(ANY_VALUE(%s.meta_value) AS DOUBLE)", metaAlias(domain.MetaGeoLng))
		b = b.Column(sq.Alias(sq.Expr(geo.DistanceSQL(lat, lng), geo.DistanceArgs(g.Lat, g.Lng)...), "distance"))
	}
	// missing attributes surface as NULLs, which the assembler rejects as a fault
	for _, k := range domain.RequiredMetaKeys {
		a := metaAlias(k)
		b = b.LeftJoin(fmt.Sprintf("wp_usermeta AS %s ON %s.user_id = hotel.ID AND %s.meta_key = ?", a, a, a), k)
	}
	b = b.LeftJoin(reviewsByHotelJoin).
		JoinClause(sq.Expr("JOIN ("+rankedSQL+") AS cheapest ON cheapest.hotel_id = hotel.ID AND cheapest.rn = 1", rankedArgs...)).
		GroupBy("hotel.ID")
	if g != nil {
		// rows whose coordinates are absent or not numbers go through so the
		// assembler reports them, as the per-hotel path does
		b = b.Having(fmt.Sprintf(
			"distance <= ? OR COALESCE(ANY_VALUE(%s.meta_value) REGEXP ?, 0) = 0 OR COALESCE(ANY_VALUE(%s.meta_value) REGEXP ?, 0) = 0",
			metaAlias(domain.MetaGeoLat), metaAlias(domain.MetaGeoLng),
		), g.RadiusKm, domain.NumberPattern, domain.NumberPattern)
	}
	b = b.OrderBy("room_id ASC")

	q, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build search query: %w", err)
	}
	return q, args, nil
}

func scanHotelRow(rows *sql.Rows, withDistance bool) (domain.HotelRow, error) {
	var (
		row      domain.HotelRow
		name     sql.NullString
		meta     = make([]sql.NullString, len(domain.RequiredMetaKeys))
		rating   sql.NullFloat64
		count    int64
		title    sql.NullString
		distance sql.NullFloat64
	)
	dest := []any{&row.ID, &name}
	for i := range meta {
		dest = append(dest, &meta[i])
	}
	dest = append(dest, &rating, &count,
		&row.Room.ID, &title, &row.Room.Surface, &row.Room.Price,
		&row.Room.Bedrooms, &row.Room.Bathrooms, &row.Room.Type,
	)
	if withDistance {
		dest = append(dest, &distance)
	}
	if err := rows.Scan(dest...); err != nil {
		return domain.HotelRow{}, err
	}

	row.Name = name.String
	row.Meta = make(map[string]string, len(meta))
	for i, k := range domain.RequiredMetaKeys {
		if meta[i].Valid {
			row.Meta[k] = meta[i].String
		}
	}
	row.Reviews = reviewAggregate(rating, count)
	row.Room.Title = title.String
	if distance.Valid {
		d := distance.Float64
		row.Distance = &d
	}
	return row, nil
}
