package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

// AccessChecker decides whether an apartment may see and book a resource.
type AccessChecker interface {
	CanAccessResource(ctx context.Context, resourceID int64, apartmentID string, isAdmin bool) (bool, error)
}

type Handler struct {
	service resource.Service
	access  AccessChecker
}

func NewHandler(service resource.Service, access AccessChecker) *Handler {
	return &Handler{
		service: service,
		access:  access,
	}
}

// List returns the active resources the caller may book.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	apartmentID := auth.GetApartmentID(c)
	isAdmin := auth.IsAdmin(c)

	resources, err := h.service.ListActive(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		if !isAdmin {
			ok, err := h.access.CanAccessResource(ctx, r.ID, apartmentID, false)
			if err != nil {
				response.Error(c, err)
				return
			}
			if !ok {
				continue
			}
		}
		items = append(items, NewResponse(r))
	}

	c.JSON(http.StatusOK, ResourcesResponse{Resources: items})
}
