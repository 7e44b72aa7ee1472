package handler

import (
	"net/http"

	mw "github.com/tekashi/storefront/internal/api/middleware"
	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Review struct {
	svc *core.ReviewService
}

func NewReview(svc *core.ReviewService) *Review {
	return &Review{svc: svc}
}

type productReviewsResponse struct {
	Items      []model.Review     `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
	HasMore    bool               `json:"has_more"`
	Stats      *model.ReviewStats `json:"stats"`
}

// List godoc
//
//	@Summary		List reviews
//	@Tags			Reviews
//	@Param			product_id query string false "Product ID"
//	@Param			rating query int false "Exact rating"
//	@Param			sort query string false "Sort field" Enums(created_at, rating, helpful)
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Review}
//	@Router			/reviews [get]
func (h *Review) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r, "created_at")
	reviews, hasMore, err := h.svc.List(r.Context(), core.ReviewFilter{
		ProductID: r.URL.Query().Get("product_id"),
		Rating:    request.QueryInt(r, "rating"),
	}, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, reviews, hasMore)
}

// ByProduct godoc
//
//	@Summary		Reviews of a product with rating statistics
//	@Tags			Reviews
//	@Param			productId path string true "Product ID"
//	@Param			rating query int false "Exact rating"
//	@Success		200 {object} productReviewsResponse
//	@Router			/reviews/product/{productId} [get]
func (h *Review) ByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	params := request.ParseListParams(r, "created_at")
	reviews, hasMore, err := h.svc.List(r.Context(), core.ReviewFilter{
		ProductID: productID,
		Rating:    request.QueryInt(r, "rating"),
	}, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	stats, err := h.svc.Stats(r.Context(), productID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	response.WriteJSON(w, http.StatusOK, productReviewsResponse{
		Items:      reviews,
		NextCursor: request.NextCursor(params.Cursor, len(reviews), hasMore),
		HasMore:    hasMore,
		Stats:      stats,
	})
}

// ByUser godoc
//
//	@Summary		Reviews written by a user
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			userId path string true "User ID"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Review}
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/reviews/user/{userId} [get]
func (h *Review) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok || !ownerOrAdmin(w, r, userID) {
		return
	}
	params := request.ParseListParams(r, "created_at")
	reviews, hasMore, err := h.svc.List(r.Context(), core.ReviewFilter{UserID: userID}, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, reviews, hasMore)
}

// Get godoc
//
//	@Summary		Get a review
//	@Tags			Reviews
//	@Param			id path string true "Review ID"
//	@Success		200 {object} model.Review
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/reviews/{id} [get]
func (h *Review) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rev, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rev)
}

// Create godoc
//
//	@Summary		Review a product
//	@Description	One active review per user and product.
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			body body request.CreateReview true "Review"
//	@Success		201 {object} model.Review
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/reviews [post]
func (h *Review) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req request.CreateReview
	if !decode(w, r, &req) {
		return
	}

	rev, err := h.svc.Create(r.Context(), c.Sub, req.ProductID, req.Rating, req.Title, req.Comment)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, rev)
}

// Update godoc
//
//	@Summary		Edit one of the caller's reviews
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			id path string true "Review ID"
//	@Param			body body request.UpdateReview true "Fields to change"
//	@Success		200 {object} model.Review
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/reviews/{id} [put]
func (h *Review) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateReview
	if !decode(w, r, &req) {
		return
	}

	rev, err := h.svc.Update(r.Context(), c.Sub, id, core.ReviewPatch{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rev)
}

// Delete godoc
//
//	@Summary		Delete a review
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			id path string true "Review ID"
//	@Success		204
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/reviews/{id} [delete]
func (h *Review) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), c.Sub, mw.IsAdmin(r.Context()), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helpful godoc
//
//	@Summary		Vote on a review
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			id path string true "Review ID"
//	@Param			body body request.VoteReview true "Vote"
//	@Success		200 {object} model.Review
//	@Router			/reviews/{id}/helpful [post]
func (h *Review) Helpful(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.VoteReview
	if !decode(w, r, &req) {
		return
	}
	rev, err := h.svc.Vote(r.Context(), id, *req.Helpful)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rev)
}

// Report godoc
//
//	@Summary		Report a review
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			id path string true "Review ID"
//	@Param			body body request.ReportReview true "Reason"
//	@Success		204
//	@Router			/reviews/{id}/report [post]
func (h *Review) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.ReportReview
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Report(r.Context(), id, req.Reason); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reply godoc
//
//	@Summary		Reply to a review as the store
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			id path string true "Review ID"
//	@Param			body body request.ReplyReview true "Reply"
//	@Success		200 {object} model.Review
//	@Router			/reviews/{id}/reply [post]
func (h *Review) Reply(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.ReplyReview
	if !decode(w, r, &req) {
		return
	}
	rev, err := h.svc.Reply(r.Context(), c.Sub, id, req.Text)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rev)
}
