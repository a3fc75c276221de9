package handler

import (
	"net/http"
	"strconv"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/complaint"
	"citizenvoice/backend/internal/models"
	"citizenvoice/backend/internal/search"

	"github.com/gin-gonic/gin"
)

type RespondRequest struct {
	Text   string `json:"text" binding:"required"`
	Status string `json:"status"`
}

type DeleteResponse struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

func complaintID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondAPIError(c, http.StatusBadRequest, apperr.CodeValidation, "invalid complaint id")
		return 0, false
	}
	return id, true
}

// ListComplaints godoc
// @Summary Search complaints
// @Description Filters the signed-in user's complaints. Pass refresh=true to reload them first.
// @Tags complaints
// @Security BearerAuth
// @Produce json
// @Param query query string false "Text in title, description or location"
// @Param categories query []string false "Category ids (1-5)" collectionFormat(multi)
// @Param date query string false "Today, Yesterday, Tomorrow, This week or a day"
// @Param location query string false "Location substring"
// @Param status query string false "Status or All"
// @Param refresh query bool false "Reload before filtering"
// @Success 200 {object} Response{data=[]models.Complaint}
// @Router /complaints [get]
func (h *Handler) ListComplaints(c *gin.Context) {
	var f search.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondValidationError(c, err)
		return
	}

	list := h.Store.Complaints()
	if c.Query("refresh") == "true" || list == nil {
		list = h.Store.FetchComplaints(c.Request.Context())
	}
	respondSuccess(c, http.StatusOK, search.Apply(list, f, h.Now()))
}

// GroupedComplaints godoc
// @Summary Leader complaint list grouped by age
// @Tags complaints
// @Security BearerAuth
// @Produce json
// @Param order query string false "desc (default) or asc"
// @Param status query string false "Status or All"
// @Success 200 {object} Response{data=search.Groups}
// @Failure 403 {object} Response
// @Router /complaints/grouped [get]
func (h *Handler) GroupedComplaints(c *gin.Context) {
	var f search.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondValidationError(c, err)
		return
	}
	order := search.ParseOrder(c.Query("order"))
	respondSuccess(c, http.StatusOK, search.LeaderView(h.Store.Complaints(), f, order, h.Now()))
}

// GetComplaint godoc
// @Summary Complaint detail
// @Tags complaints
// @Security BearerAuth
// @Produce json
// @Param id path int true "Complaint id"
// @Success 200 {object} Response{data=models.Complaint}
// @Failure 404 {object} Response
// @Router /complaints/{id} [get]
func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	item, err := h.Store.FindComplaint(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, item)
}

// CreateComplaint godoc
// @Summary File a complaint
// @Description Images are local file paths; they are copied into the media directory.
// @Tags complaints
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param complaint body complaint.Draft true "Complaint form"
// @Success 201 {object} Response{data=models.Complaint}
// @Failure 400 {object} Response
// @Failure 422 {object} Response
// @Router /complaints [post]
func (h *Handler) CreateComplaint(c *gin.Context) {
	var draft complaint.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondValidationError(c, err)
		return
	}

	created, err := h.Store.CreateComplaint(c.Request.Context(), draft, currentUser(c))
	if err != nil && created.ID == 0 {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, created)
}

// RespondToComplaint godoc
// @Summary Answer a complaint
// @Description Appends a leader response; its status becomes the complaint's status.
// @Tags complaints
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Complaint id"
// @Param response body RespondRequest true "Response text and new status"
// @Success 200 {object} Response{data=models.Complaint}
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /complaints/{id} [put]
func (h *Handler) RespondToComplaint(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var status models.Status
	if req.Status != "" {
		parsed, valid := models.ParseStatus(req.Status)
		if !valid {
			respondAPIError(c, http.StatusBadRequest, apperr.CodeValidation, "unknown status "+req.Status)
			return
		}
		status = parsed
	}

	updated, err := h.Store.Respond(c.Request.Context(), id, req.Text, status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, updated)
}

// DeleteComplaint godoc
// @Summary Delete a complaint
// @Description Owners and leaders may delete. Deleting an unknown id is not an error.
// @Tags complaints
// @Security BearerAuth
// @Produce json
// @Param id path int true "Complaint id"
// @Success 200 {object} Response{data=DeleteResponse}
// @Failure 403 {object} Response
// @Router /complaints/{id} [delete]
func (h *Handler) DeleteComplaint(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}

	user := currentUser(c)
	existing, found := h.Store.Complaint(id)
	if found && !auth.CanDelete(user, existing) {
		respondError(c, apperr.New(apperr.CodePermissionDenied, "DeleteComplaint", "only the owner or a leader can delete this complaint"))
		return
	}
	if !found && !user.IsLeader() {
		respondSuccess(c, http.StatusOK, DeleteResponse{ID: id})
		return
	}

	deleted, err := h.Store.DeleteComplaint(c.Request.Context(), id)
	if err != nil && !deleted {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, DeleteResponse{ID: id, Deleted: deleted})
}
