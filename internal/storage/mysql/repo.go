package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	rows, err := r.db.QueryContext(ctx, listOwnersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Owner
	for rows.Next() {
		var o domain.Owner
		if err := rows.Scan(&o.ID, &o.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HotelMeta returns every wp_usermeta pair of a hotel.
func (r *Repo) HotelMeta(ctx context.Context, hotelID int64) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, hotelMetaSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string, len(domain.RequiredMetaKeys))
	for rows.Next() {
		var k string
		var v sql.NullString
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		// a NULL value counts as absent
		if v.Valid {
			out[k] = v.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) HotelReviews(ctx context.Context, hotelID int64) (domain.ReviewAggregate, error) {
	var rating sql.NullFloat64
	var count int64
	if err := r.db.QueryRowContext(ctx, hotelReviewsSQL, hotelID).Scan(&rating, &count); err != nil {
		return domain.ReviewAggregate{}, err
	}
	return reviewAggregate(rating, count), nil
}

// CheapestRoom returns the lowest-priced room of the hotel satisfying preds.
func (r *Repo) CheapestRoom(ctx context.Context, hotelID int64, preds filter.Predicates) (domain.RoomRow, bool, error) {
	q, args, err := cheapestRoomQuery(hotelID, preds)
	if err != nil {
		return domain.RoomRow{}, false, err
	}
	var rr domain.RoomRow
	var title sql.NullString
	err = r.db.QueryRowContext(ctx, q, args...).Scan(
		&rr.ID, &title, &rr.Surface, &rr.Price, &rr.Bedrooms, &rr.Bathrooms, &rr.Type,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomRow{}, false, nil
	}
	if err != nil {
		return domain.RoomRow{}, false, err
	}
	rr.Title = title.String
	return rr, true, nil
}

func cheapestRoomQuery(hotelID int64, preds filter.Predicates) (string, []any, error) {
	b := withPredicates(roomSelect(roomFields...).Where(sq.Eq{"post.post_author": hotelID}), preds).
		OrderBy(cheapestOrder...).
		Limit(1)
	q, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build cheapest room query: %w", err)
	}
	return q, args, nil
}

func reviewAggregate(rating sql.NullFloat64, count int64) domain.ReviewAggregate {
	out := domain.ReviewAggregate{Count: int(count)}
	if rating.Valid && count > 0 {
		v := int(rating.Float64)
		out.Rating = &v
	}
	return out
}
