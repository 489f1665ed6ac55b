// Badge read endpoints.
//
//   - GET /badges               (catalog)
//   - GET /badges/{key}         (one catalog entry)
//   - GET /me/badges            (earned badges, weak ETag support)
//   - GET /me/progress          (progress toward every evaluated badge)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/services"
)

// BadgeListResponse wraps the badge catalog.
type BadgeListResponse struct {
	Badges []domain.Badge `json:"badges"`
}

// UserBadgesResponse wraps a user's earned badges, most recent first.
type UserBadgesResponse struct {
	Awards []domain.Award `json:"awards"`
}

// ProgressResponse wraps a user's progress rows.
type ProgressResponse struct {
	Progress []domain.Progress `json:"progress"`
}

// ListBadges godoc
// @ID          listBadges
// @Summary     List the badge catalog
// @Description Returns every badge ordered by category, then key.
// @Tags        Badges
// @Produce     json
// @Success     200  {object}  handlers.BadgeListResponse
// @Router      /badges [get]
func (h *Handlers) ListBadges(c *gin.Context) {
	ok(c, http.StatusOK, BadgeListResponse{Badges: h.badges.ListBadges(c.Request.Context())})
}

// GetBadge godoc
// @ID          getBadge
// @Summary     Get one badge
// @Tags        Badges
// @Produce     json
// @Param       key  path  string  true  "Badge key"  example(daredevil)
// @Success     200  {object}  domain.Badge
// @Failure     404  {object}  handlers.ErrorResponse  "Badge not found"
// @Router      /badges/{key} [get]
func (h *Handlers) GetBadge(c *gin.Context) {
	b, err := h.badges.GetBadge(c.Request.Context(), c.Param("key"))
	if errors.Is(err, services.ErrBadgeNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "badge not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}

// ListMyBadges godoc
// @ID          listMyBadges
// @Summary     List earned badges
// @Description Returns the current user's awards joined with badge metadata. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Badges
// @Produce     json
//
// @Param       X-User-ID      header  string  false  "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"awards:user123::2:1700000000000000000\")
// @Param       trip_id        query   string  false  "Limit to one trip plus global badges"
//
// @Success     200  {object}  handlers.UserBadgesResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /me/badges [get]
func (h *Handlers) ListMyBadges(c *gin.Context) {
	var q TripQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "trip_id must be at most 64 characters")
		return
	}
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort). Awards are append-only, so count and
	// latest EarnedAt change exactly when the list does.
	if count, latest, err := h.badges.AwardsStats(ctx, uid, q.TripID); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.UnixNano()
		}
		if notModified(c, fmt.Sprintf(`W/"awards:%s:%s:%d:%d"`, uid, q.TripID, count, ts)) {
			return
		}
	}

	awards, err := h.badges.ListUserBadges(ctx, uid, q.TripID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, UserBadgesResponse{Awards: awards})
}

// ListMyProgress godoc
// @ID          listMyProgress
// @Summary     List badge progress
// @Description Returns the current user's most recently computed progress rows.
// @Tags        Badges
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID (demo header)"  example(user123)
// @Param       trip_id    query   string  false  "Limit to one trip plus global badges"
// @Success     200  {object}  handlers.ProgressResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /me/progress [get]
func (h *Handlers) ListMyProgress(c *gin.Context) {
	var q TripQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "trip_id must be at most 64 characters")
		return
	}
	rows, err := h.badges.ListProgress(c.Request.Context(), userID(c), q.TripID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ProgressResponse{Progress: rows})
}
