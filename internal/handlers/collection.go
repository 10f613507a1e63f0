package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/craterhub/crater-api/internal/auth"
	"github.com/craterhub/crater-api/internal/middleware"
	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/craterhub/crater-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type CollectionHandler struct {
	collectionService CollectionServiceInterface
	iconService       IconServiceInterface
}

func NewCollectionHandler(collectionService CollectionServiceInterface, iconService IconServiceInterface) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		iconService:       iconService,
	}
}

func toCollectionResponse(collection *models.Collection) dto.CollectionResponse {
	return dto.CollectionResponse{
		ID:          collection.ID,
		OwnerID:     collection.OwnerID,
		Title:       collection.Title,
		Description: collection.Description,
		Status:      string(collection.Status),
		IconURL:     collection.IconURL,
		Color:       collection.Color,
		CreatedAt:   collection.CreatedAt,
		UpdatedAt:   collection.UpdatedAt,
		Projects:    collection.ProjectIDs,
	}
}

func parseProjectIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requireReadScope rejects authenticated requests whose token lacks the read
// scope. Anonymous requests pass; visibility checks handle them downstream.
func requireReadScope(c *drift.Context) bool {
	if middleware.GetUser(c) == nil {
		return true
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionRead) {
		c.Forbidden("token lacks collection read scope")
		return false
	}
	return true
}

func (h *CollectionHandler) Create(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionCreate) {
		c.Forbidden("token lacks collection create scope")
		return
	}

	var req dto.CreateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	projectIDs, err := parseProjectIDs(req.Projects)
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	ctx := context.Background()

	collection, err := h.collectionService.Create(ctx, user.ID, req.Title, req.Description, projectIDs)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTitle) ||
			errors.Is(err, services.ErrInvalidDescription) ||
			errors.Is(err, services.ErrTooManyProjects) {
			c.BadRequest(err.Error())
			return
		}
		c.InternalServerError("failed to create collection")
		return
	}

	_ = c.JSON(201, toCollectionResponse(collection))
}

func (h *CollectionHandler) List(c *drift.Context) {
	if !requireReadScope(c) {
		return
	}

	idsParam := c.QueryParam("ids")
	if idsParam == "" {
		c.BadRequest("ids query parameter is required")
		return
	}

	var raw []string
	if err := json.Unmarshal([]byte(idsParam), &raw); err != nil {
		c.BadRequest("ids must be a JSON array of collection ids")
		return
	}

	ids, err := parseProjectIDs(raw)
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	ctx := context.Background()

	collections, err := h.collectionService.GetMany(ctx, ids)
	if err != nil {
		c.InternalServerError("failed to get collections")
		return
	}

	visible := auth.FilterAuthorized(collections, middleware.GetUser(c))

	response := make([]dto.CollectionResponse, len(visible))
	for i := range visible {
		response[i] = toCollectionResponse(&visible[i])
	}

	_ = c.JSON(200, response)
}

func (h *CollectionHandler) Get(c *drift.Context) {
	if !requireReadScope(c) {
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	ctx := context.Background()

	collection, err := h.collectionService.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to get collection")
		return
	}

	// Hidden collections 404 rather than 403 so their existence does not leak.
	if !auth.IsAuthorized(collection, middleware.GetUser(c)) {
		c.NotFound("collection not found")
		return
	}

	_ = c.JSON(200, toCollectionResponse(collection))
}

func (h *CollectionHandler) ListMine(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionRead) {
		c.Forbidden("token lacks collection read scope")
		return
	}

	ctx := context.Background()

	collections, err := h.collectionService.GetByOwner(ctx, user.ID)
	if err != nil {
		c.InternalServerError("failed to get collections")
		return
	}

	response := make([]dto.CollectionResponse, len(collections))
	for i := range collections {
		response[i] = toCollectionResponse(&collections[i])
	}

	_ = c.JSON(200, response)
}

func (h *CollectionHandler) Edit(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionWrite) {
		c.Forbidden("token lacks collection write scope")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	var req dto.EditCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	existing, err := h.collectionService.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to get collection")
		return
	}

	if !auth.IsAuthorized(existing, user) {
		c.NotFound("collection not found")
		return
	}
	if !auth.CanModify(existing, user) {
		c.Forbidden("cannot modify this collection")
		return
	}

	params := services.UpdateCollectionParams{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.Status != nil {
		requested := models.ParseCollectionStatus(*req.Status)
		if requested == models.StatusUnknown && *req.Status != string(models.StatusUnknown) {
			c.BadRequest("invalid status")
			return
		}
		if !auth.CanSetStatus(user, existing.Status, requested) {
			c.Forbidden("cannot set this status")
			return
		}
		params.Status = &requested
	}

	if req.NewProjects != nil {
		projectIDs, err := parseProjectIDs(*req.NewProjects)
		if err != nil {
			c.BadRequest("invalid project id")
			return
		}
		params.ProjectIDs = &projectIDs
	}

	if err := h.collectionService.Update(ctx, collectionID, params); err != nil {
		switch {
		case errors.Is(err, services.ErrCollectionNotFound):
			c.NotFound("collection not found")
		case errors.Is(err, services.ErrProjectNotFound),
			errors.Is(err, services.ErrInvalidTitle),
			errors.Is(err, services.ErrInvalidDescription),
			errors.Is(err, services.ErrTooManyProjects),
			errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest(err.Error())
		default:
			c.InternalServerError("failed to update collection")
		}
		return
	}

	updated, err := h.collectionService.GetByID(ctx, collectionID)
	if err != nil {
		c.InternalServerError("failed to get collection")
		return
	}

	_ = c.JSON(200, toCollectionResponse(updated))
}

func (h *CollectionHandler) SetIcon(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionWrite) {
		c.Forbidden("token lacks collection write scope")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	ext := c.QueryParam("ext")
	if ext == "" {
		c.BadRequest("ext query parameter is required")
		return
	}

	ctx := context.Background()

	existing, err := h.collectionService.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to get collection")
		return
	}

	if !auth.IsAuthorized(existing, user) {
		c.NotFound("collection not found")
		return
	}
	if !auth.CanModify(existing, user) {
		c.Forbidden("cannot modify this collection")
		return
	}

	if err := h.iconService.SetIcon(ctx, existing, ext, c.Request.Body); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidIconFormat), errors.Is(err, services.ErrIconTooLarge):
			c.BadRequest(err.Error())
		case errors.Is(err, services.ErrCollectionNotFound):
			c.NotFound("collection not found")
		default:
			c.InternalServerError("failed to update icon")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "icon updated"})
}

func (h *CollectionHandler) ClearIcon(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionWrite) {
		c.Forbidden("token lacks collection write scope")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	ctx := context.Background()

	existing, err := h.collectionService.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to get collection")
		return
	}

	if !auth.IsAuthorized(existing, user) {
		c.NotFound("collection not found")
		return
	}
	if !auth.CanModify(existing, user) {
		c.Forbidden("cannot modify this collection")
		return
	}

	if err := h.iconService.ClearIcon(ctx, existing); err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to remove icon")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "icon removed"})
}

func (h *CollectionHandler) Delete(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !middleware.GetScopes(c).Has(models.ScopeCollectionDelete) {
		c.Forbidden("token lacks collection delete scope")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	ctx := context.Background()

	existing, err := h.collectionService.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to get collection")
		return
	}

	if !auth.IsAuthorized(existing, user) {
		c.NotFound("collection not found")
		return
	}
	if !auth.CanModify(existing, user) {
		c.Forbidden("cannot delete this collection")
		return
	}

	deleted, err := h.collectionService.Remove(ctx, collectionID)
	if err != nil {
		c.InternalServerError("failed to delete collection")
		return
	}
	if !deleted {
		c.NotFound("collection not found")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "collection deleted"})
}
