package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"stream-alerts/internal/events"
	"stream-alerts/internal/services"
	"stream-alerts/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service *services.EventPublisher
}

func NewEventHandler(service *services.EventPublisher) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) Follow(c *gin.Context) {
	h.publish(c, func(ctx context.Context) (string, error) {
		return h.service.PublishFollow(ctx, events.FollowEvent{
			Username: param(c, "username"),
		})
	})
}

func (h *EventHandler) Subscribe(c *gin.Context) {
	h.publish(c, func(ctx context.Context) (string, error) {
		return h.service.PublishSubscribe(ctx, events.SubscribeEvent{
			Username:  param(c, "username"),
			IsPrime:   param(c, "isPrime"),
			IsGift:    param(c, "isGift"),
			Recipient: param(c, "recipient"),
		})
	})
}

func (h *EventHandler) Donation(c *gin.Context) {
	h.publish(c, func(ctx context.Context) (string, error) {
		return h.service.PublishDonation(ctx, events.DonationEvent{
			Username: param(c, "username"),
			Amount:   param(c, "amount"),
		})
	})
}

func (h *EventHandler) Raid(c *gin.Context) {
	h.publish(c, func(ctx context.Context) (string, error) {
		return h.service.PublishRaid(ctx, events.RaidEvent{
			Username: param(c, "username"),
			Viewers:  param(c, "viewers"),
		})
	})
}

func (h *EventHandler) Music(c *gin.Context) {
	var req httpdto.MusicRequest
	if err := bindMusic(c, &req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request body", "INVALID_REQUEST"))
		return
	}
	h.publish(c, func(ctx context.Context) (string, error) {
		return h.service.PublishMusic(ctx, events.MusicEvent{
			AlbumImg: req.Base64,
			Author:   req.Author,
			Song:     req.Song,
			NoSound:  req.NoSound,
		})
	})
}

func (h *EventHandler) publish(c *gin.Context, fn func(ctx context.Context) (string, error)) {
	id, err := fn(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to publish event", "PUBLISH_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.PublishResponse{UUID: id})
}

// bindMusic decodes the whole body as one JSON document. Trailing data after
// the object is rejected.
func bindMusic(c *gin.Context, req *httpdto.MusicRequest) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	return json.Unmarshal(body, req)
}

// param reads a request parameter from the query string, then the form body.
// Absent parameters are nil so they publish as null.
func param(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}
