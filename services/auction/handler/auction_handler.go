package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	auction "souq-auctions/internal/auctionService"
	model "souq-auctions/internal/models"
	"souq-auctions/services/auction/helpers"
	"souq-auctions/utils"
)

type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, callerID string, params auction.CreateAuctionParams) (model.Auction, error)
	PlaceBid(ctx context.Context, auctionID, bidderID string, price decimal.Decimal, comment string) (auction.BidResult, error)
	WithdrawBid(ctx context.Context, auctionID, bidID, requesterID string) (model.Bid, error)
	CloseAuction(ctx context.Context, auctionID, requesterID string, privileged bool) (auction.ClosingResult, error)
	CancelAuction(ctx context.Context, auctionID, requesterID string, privileged bool) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListBids(ctx context.Context, auctionID string) ([]model.Bid, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	callerID, _ := helpers.CallerIdentity(c)
	if callerID == "" {
		helpers.HandleMissingIdentity(c, "CreateAuctionHandler")
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	params := auction.CreateAuctionParams{
		AdID:                  req.AdID,
		StartPrice:            req.StartPrice,
		ReservePrice:          req.ReservePrice,
		MinIncrement:          req.MinIncrement,
		EndTime:               req.EndTime,
		AntiSnipeWindowSec:    req.AntiSnipeWindowSec,
		AntiSnipeExtensionSec: req.AntiSnipeExtensionSec,
		AutoClose:             req.AutoClose,
	}
	if req.StartTime != nil {
		params.StartTime = *req.StartTime
	}

	created, err := h.service.CreateAuction(c.Request.Context(), callerID, params)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"ad_id":     req.AdID,
			"caller_id": callerID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, created, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": created.AuctionID,
		"ad_id":      created.AdID,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	found, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, found, "auction retrieved successfully")
}

// ListBidsHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) ListBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.ListBids(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBidsHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("ListBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	bidderID, _ := helpers.CallerIdentity(c)
	if bidderID == "" {
		helpers.HandleMissingIdentity(c, "PlaceBidHandler")
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	auctionID := c.Param("auction_id")
	result, err := h.service.PlaceBid(c.Request.Context(), auctionID, bidderID, req.Price, req.Comment)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewPlaceBidResponse(result), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":       result.Bid.BidID,
		"auction_id":   auctionID,
		"bidder_id":    bidderID,
		"price":        result.Bid.Price.String(),
		"snipe_extend": result.AntiSnipeTriggered,
	})
}

// WithdrawBidHandler handles DELETE /auctions/:auction_id/bids/:bid_id
func (h *AuctionHandler) WithdrawBidHandler(c *gin.Context) {
	requesterID, _ := helpers.CallerIdentity(c)
	if requesterID == "" {
		helpers.HandleMissingIdentity(c, "WithdrawBidHandler")
		return
	}

	auctionID := c.Param("auction_id")
	bidID := c.Param("bid_id")

	bid, err := h.service.WithdrawBid(c.Request.Context(), auctionID, bidID, requesterID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("WithdrawBidHandler: failed to withdraw bid", map[string]any{
			"auction_id":   auctionID,
			"bid_id":       bidID,
			"requester_id": requesterID,
			"error":        err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "bid withdrawn successfully")
	helpers.LogSuccess("WithdrawBidHandler", "bid withdrawn successfully", map[string]any{
		"auction_id": auctionID,
		"bid_id":     bidID,
	})
}

// CloseAuctionHandler handles POST /auctions/:auction_id/actions/close
func (h *AuctionHandler) CloseAuctionHandler(c *gin.Context) {
	requesterID, privileged := helpers.CallerIdentity(c)
	if requesterID == "" {
		helpers.HandleMissingIdentity(c, "CloseAuctionHandler")
		return
	}

	auctionID := c.Param("auction_id")
	result, err := h.service.CloseAuction(c.Request.Context(), auctionID, requesterID, privileged)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CloseAuctionHandler: failed to close auction", map[string]any{
			"auction_id":   auctionID,
			"requester_id": requesterID,
			"error":        err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewClosingResultResponse(result), "auction closed successfully")
	helpers.LogSuccess("CloseAuctionHandler", "auction closed successfully", map[string]any{
		"auction_id":  auctionID,
		"reserve_met": result.ReserveMet,
		"has_winner":  result.WinnerUserID != nil,
	})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/actions/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	requesterID, privileged := helpers.CallerIdentity(c)
	if requesterID == "" {
		helpers.HandleMissingIdentity(c, "CancelAuctionHandler")
		return
	}

	auctionID := c.Param("auction_id")
	if err := h.service.CancelAuction(c.Request.Context(), auctionID, requesterID, privileged); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CancelAuctionHandler: failed to cancel auction", map[string]any{
			"auction_id":   auctionID,
			"requester_id": requesterID,
			"error":        err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID, "status": model.AuctionCancelled}, "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled successfully", map[string]any{
		"auction_id": auctionID,
	})
}
