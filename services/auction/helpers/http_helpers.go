package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-auctions/internal/auctionerrors"
	"souq-auctions/utils"
)

// Identity headers resolved by the upstream gateway. The engine itself only
// ever sees the resolved user id and privileged flag.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	RoleAdmin      = "admin"
)

// CallerIdentity extracts the resolved caller id and privilege flag from the
// request headers.
func CallerIdentity(c *gin.Context) (userID string, privileged bool) {
	return c.GetHeader(HeaderUserID), c.GetHeader(HeaderUserRole) == RoleAdmin
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleMissingIdentity rejects requests that arrive without a resolved
// caller id.
func HandleMissingIdentity(c *gin.Context, handlerName string) {
	err := errors.New("missing " + HeaderUserID + " header")
	utils.JSONError(c, http.StatusUnauthorized, err, "caller identity required")
	utils.Warn(handlerName+": missing identity", nil)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	// not found
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, auctionerrors.ErrAdNotFound):
		return http.StatusNotFound, "ad not found"

	// authorization
	case errors.Is(err, auctionerrors.ErrSelfBid):
		return http.StatusForbidden, "cannot bid on your own auction"
	case errors.Is(err, auctionerrors.ErrAdNotPublished):
		return http.StatusForbidden, "ad is not open for bids"
	case errors.Is(err, auctionerrors.ErrNotBidOwner):
		return http.StatusForbidden, "only the bidder may withdraw this bid"
	case errors.Is(err, auctionerrors.ErrHighestBid):
		return http.StatusForbidden, "the highest bid cannot be withdrawn"
	case errors.Is(err, auctionerrors.ErrWithdrawClosed):
		return http.StatusForbidden, "bids can no longer be withdrawn"
	case errors.Is(err, auctionerrors.ErrEarlyClose):
		return http.StatusForbidden, "auction cannot be closed before its end time"
	case errors.Is(err, auctionerrors.ErrNotAdOwner):
		return http.StatusForbidden, "caller does not own this auction's ad"

	// invalid state
	case errors.Is(err, auctionerrors.ErrAuctionNotActive),
		errors.Is(err, auctionerrors.ErrAuctionNotOpen),
		errors.Is(err, auctionerrors.ErrAuctionEnded),
		errors.Is(err, auctionerrors.ErrWinnerDecided),
		errors.Is(err, auctionerrors.ErrAlreadyWithdrawn),
		errors.Is(err, auctionerrors.ErrAuctionTerminal),
		errors.Is(err, auctionerrors.ErrCancelWithBids):
		return http.StatusUnprocessableEntity, "operation not valid for current auction state"

	// validation
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusUnprocessableEntity, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrCommentTooLong),
		errors.Is(err, auctionerrors.ErrInvalidWindow),
		errors.Is(err, auctionerrors.ErrInvalidPricing):
		return http.StatusUnprocessableEntity, "invalid auction parameters"
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request details"

	// conflicts
	case errors.Is(err, auctionerrors.ErrDuplicateAuction):
		return http.StatusConflict, "an auction already exists for this ad"
	case errors.Is(err, auctionerrors.ErrConflict):
		return http.StatusConflict, "concurrent modification, retry"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
