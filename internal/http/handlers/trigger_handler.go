// Badge trigger endpoints.
//
// Collaborating subsystems call these after their own write commits:
//
//   - POST /trips/{id}/badge-checks/{family}   (per-trip and global badges)
//   - POST /me/badge-checks/{family}           (global badges only)
//
// Evaluation failures never surface here; the dispatcher logs and counts
// them and the next trigger recomputes from source.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BooManLag/trippit-app-sub000/internal/http/middleware"
	"github.com/BooManLag/trippit-app-sub000/internal/services"
)

// maxTripIDLen matches the trip_id column width.
const maxTripIDLen = 64

// CheckTripBadges godoc
// @ID          checkTripBadges
// @Summary     Re-evaluate badges after a trip change
// @Description Runs the evaluators of one family ("all" runs every family) for the current user on a trip and returns the badge keys awarded by this call.
// @Tags        Triggers
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID (demo header)"  example(user123)
// @Param       id         path    string  true   "Trip ID"
// @Param       family     path    string  true   "Badge family"  Enums(dare, checklist, invitation, combo, all)
// @Success     200  {object}  services.Report
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown family or bad trip id"
// @Router      /trips/{id}/badge-checks/{family} [post]
func (h *Handlers) CheckTripBadges(c *gin.Context) {
	tripID := strings.TrimSpace(c.Param("id"))
	if tripID == "" || len(tripID) > maxTripIDLen {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "trip id must be 1-64 characters")
		return
	}
	h.check(c, tripID)
}

// CheckGlobalBadges godoc
// @ID          checkGlobalBadges
// @Summary     Re-evaluate global badges
// @Description Runs the evaluators of one family for the current user without a trip; only globally scoped badges are considered.
// @Tags        Triggers
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID (demo header)"  example(user123)
// @Param       family     path    string  true   "Badge family"  Enums(dare, checklist, invitation, combo, all)
// @Success     200  {object}  services.Report
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown family"
// @Router      /me/badge-checks/{family} [post]
func (h *Handlers) CheckGlobalBadges(c *gin.Context) {
	h.check(c, "")
}

func (h *Handlers) check(c *gin.Context, tripID string) {
	family := strings.ToLower(c.Param("family"))
	lg := middleware.LoggerFrom(c)
	ctx := lg.WithContext(c.Request.Context())

	rep, err := h.checker.Check(ctx, family, userID(c), tripID)
	if errors.Is(err, services.ErrUnknownFamily) {
		fail(c, http.StatusBadRequest, ErrCodeUnknownFamily, fmt.Sprintf("unknown badge family %q", family))
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if len(rep.NewlyAwarded) > 0 {
		lg.Info().Str("family", family).Str("trip_id", tripID).Strs("badges", rep.NewlyAwarded).Msg("badges awarded")
	}
	ok(c, http.StatusOK, rep)
}
