package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const reviewColumns = `id, product_id, user_id, user_name, rating, title, comment, helpful, not_helpful,
	verified, verified_purchase, active, reported, report_reason, admin_reply, admin_reply_at,
	admin_reply_by, created_at, updated_at`

// ReviewPatch holds optional review changes.
type ReviewPatch struct {
	Rating  *int
	Title   *string
	Comment *string
}

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProductID string
	UserID    string
	Rating    *int
}

type ReviewService struct {
	db DB
}

func NewReviewService(db DB) *ReviewService {
	return &ReviewService{db: db}
}

func scanReview(row scanner, r *model.Review) error {
	return row.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Title, &r.Comment,
		&r.Helpful, &r.NotHelpful, &r.Verified, &r.VerifiedPurchase, &r.Active, &r.Reported,
		&r.ReportReason, &r.AdminReply, &r.AdminReplyAt, &r.AdminReplyBy, &r.CreatedAt, &r.UpdatedAt)
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

// recomputeRating refreshes the rating average and count of a product from
// its active reviews.
func recomputeRating(ctx context.Context, tx pgx.Tx, productID string) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET
		 rating_avg = COALESCE((SELECT round(avg(rating)::numeric, 1) FROM reviews WHERE product_id = $1 AND active), 0),
		 rating_count = (SELECT count(*) FROM reviews WHERE product_id = $1 AND active),
		 updated_at = now()
		 WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("recompute rating of %s: %w", productID, err)
	}
	return nil
}

// Create stores a review. A user may hold one active review per product.
func (s *ReviewService) Create(ctx context.Context, userID, productID string, rating int, title, comment string) (*model.Review, error) {
	if !validRating(rating) {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}
	now := time.Now()
	r := &model.Review{
		ID:        platform.NewID(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx,
			`SELECT id FROM products WHERE id = $1 AND active FOR UPDATE`, productID).Scan(&id); err != nil {
			return notFound(err, "product %s", productID)
		}
		if err := tx.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, userID).Scan(&r.UserName); err != nil {
			return notFound(err, "user %s", userID)
		}
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders o JOIN order_items i ON i.order_id = o.id
			 WHERE o.user_id = $1 AND o.status = $2 AND i.product_id = $3)`,
			userID, model.OrderDelivered, productID).Scan(&r.VerifiedPurchase); err != nil {
			return fmt.Errorf("check purchase of %s: %w", productID, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO reviews (id, product_id, user_id, user_name, rating, title, comment, helpful,
			 not_helpful, verified, verified_purchase, active, reported, report_reason, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, false, $8, true, false, '', $9, $10)`,
			r.ID, r.ProductID, r.UserID, r.UserName, r.Rating, r.Title, r.Comment, r.VerifiedPurchase,
			r.CreatedAt, r.UpdatedAt); err != nil {
			return conflict(err, "review of %s", productID)
		}
		return recomputeRating(ctx, tx, productID)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func lockReview(ctx context.Context, tx pgx.Tx, id string) (*model.Review, error) {
	var r model.Review
	if err := scanReview(tx.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1 AND active FOR UPDATE`, id), &r); err != nil {
		return nil, notFound(err, "get review %s", id)
	}
	return &r, nil
}

// Update edits a review on behalf of its author.
func (s *ReviewService) Update(ctx context.Context, userID, id string, in ReviewPatch) (*model.Review, error) {
	if in.Rating != nil && !validRating(*in.Rating) {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}
	var r *model.Review
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		r, err = lockReview(ctx, tx, id)
		if err != nil {
			return err
		}
		if r.UserID != userID {
			return fmt.Errorf("update review %s: %w", id, ErrForbidden)
		}
		if in.Rating != nil {
			r.Rating = *in.Rating
		}
		if in.Title != nil {
			r.Title = *in.Title
		}
		if in.Comment != nil {
			r.Comment = *in.Comment
		}
		r.UpdatedAt = time.Now()

		if _, err := tx.Exec(ctx,
			`UPDATE reviews SET rating = $1, title = $2, comment = $3, updated_at = $4 WHERE id = $5`,
			r.Rating, r.Title, r.Comment, r.UpdatedAt, id); err != nil {
			return fmt.Errorf("update review %s: %w", id, err)
		}
		return recomputeRating(ctx, tx, r.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Delete soft-deletes a review. Only its author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, userID string, isAdmin bool, id string) error {
	return inTx(ctx, s.db, func(tx pgx.Tx) error {
		r, err := lockReview(ctx, tx, id)
		if err != nil {
			return err
		}
		if r.UserID != userID && !isAdmin {
			return fmt.Errorf("delete review %s: %w", id, ErrForbidden)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE reviews SET active = false, updated_at = now() WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete review %s: %w", id, err)
		}
		return recomputeRating(ctx, tx, r.ProductID)
	})
}

func (s *ReviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	var r model.Review
	err := scanReview(s.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1 AND active`, id), &r)
	if err != nil {
		return nil, notFound(err, "get review %s", id)
	}
	return &r, nil
}

// List returns active reviews. Sort accepts created_at, rating and helpful.
func (s *ReviewService) List(ctx context.Context, rf ReviewFilter, params request.ListParams) ([]model.Review, bool, error) {
	var f filter
	f.addRaw(`active`)
	if rf.ProductID != "" {
		f.add(`product_id = ?`, rf.ProductID)
	}
	if rf.UserID != "" {
		f.add(`user_id = ?`, rf.UserID)
	}
	if rf.Rating != nil {
		f.add(`rating = ?`, *rf.Rating)
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews` + f.where() + f.page(params, "created_at", "rating", "helpful")

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := scanReview(rows, &r); err != nil {
			return nil, false, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate reviews: %w", err)
	}

	reviews, hasMore := trimPage(reviews, params.Limit)
	return reviews, hasMore, nil
}

// Stats summarises the active reviews of a product.
func (s *ReviewService) Stats(ctx context.Context, productID string) (*model.ReviewStats, error) {
	rows, err := s.db.Query(ctx,
		`SELECT rating, count(*), COALESCE(sum(helpful), 0), COALESCE(sum(not_helpful), 0),
		 count(*) FILTER (WHERE verified_purchase)
		 FROM reviews WHERE product_id = $1 AND active GROUP BY rating`, productID)
	if err != nil {
		return nil, fmt.Errorf("review stats of %s: %w", productID, err)
	}
	defer rows.Close()

	st := &model.ReviewStats{}
	var sum, helpful, notHelpful int
	for rows.Next() {
		var rating, count, h, nh, verified int
		if err := rows.Scan(&rating, &count, &h, &nh, &verified); err != nil {
			return nil, fmt.Errorf("scan review stats: %w", err)
		}
		if validRating(rating) {
			st.Distribution[rating-1] = count
		}
		st.Total += count
		sum += rating * count
		helpful += h
		notHelpful += nh
		st.Verified += verified
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review stats: %w", err)
	}

	if st.Total > 0 {
		st.Average = roundTenth(float64(sum) / float64(st.Total))
	}
	if votes := helpful + notHelpful; votes > 0 {
		st.HelpfulPercentage = roundTenth(float64(helpful) * 100 / float64(votes))
	}
	return st, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Vote counts a helpful or not helpful vote.
func (s *ReviewService) Vote(ctx context.Context, id string, helpful bool) (*model.Review, error) {
	col := "not_helpful"
	if helpful {
		col = "helpful"
	}
	var r model.Review
	err := scanReview(s.db.QueryRow(ctx,
		`UPDATE reviews SET `+col+` = `+col+` + 1 WHERE id = $1 AND active RETURNING `+reviewColumns, id), &r)
	if err != nil {
		return nil, notFound(err, "vote review %s", id)
	}
	return &r, nil
}

func (s *ReviewService) Report(ctx context.Context, id, reason string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE reviews SET reported = true, report_reason = $1, updated_at = now() WHERE id = $2 AND active`,
		reason, id)
	if err != nil {
		return fmt.Errorf("report review %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	return nil
}

// Reply attaches an admin reply to a review.
func (s *ReviewService) Reply(ctx context.Context, adminID, id, text string) (*model.Review, error) {
	var r model.Review
	err := scanReview(s.db.QueryRow(ctx,
		`UPDATE reviews SET admin_reply = $1, admin_reply_at = now(), admin_reply_by = $2, updated_at = now()
		 WHERE id = $3 AND active RETURNING `+reviewColumns, text, adminID, id), &r)
	if err != nil {
		return nil, notFound(err, "reply to review %s", id)
	}
	return &r, nil
}
