package handler

import (
	"net/http"
	"time"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/author/service"
	bookmodel "library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/request"
	"library-catalog/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var formFields = []string{
	model.FieldName,
	model.FieldFirstName,
	model.FieldFamilyName,
	model.FieldDateOfBirth,
	model.FieldDateOfDeath,
}

type AuthorHandler struct {
	service service.ServiceInterface
	now     func() time.Time
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
		now:     time.Now,
	}
}

// AuthorDetailResponse is an author with the books that reference it.
type AuthorDetailResponse struct {
	Author *model.AuthorResponse     `json:"author"`
	Books  []*bookmodel.BookResponse `json:"books"`
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/authors?name=
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	authors, err := h.service.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	now := h.now()
	res := make([]*model.AuthorResponse, len(authors))
	for i := range authors {
		res[i] = authors[i].ToResponse(now)
	}

	response.SuccessWithMeta(c, http.StatusOK, res, &response.Meta{Total: len(res)})
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	raw, err := request.Fields(c, formFields...)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), raw)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", created.URL())
	response.Success(c, http.StatusCreated, created.ToResponse(h.now()))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := authorID(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	books := make([]*bookmodel.BookResponse, len(detail.Books))
	for i := range detail.Books {
		books[i] = detail.Books[i].ToResponse()
	}

	response.Success(c, http.StatusOK, &AuthorDetailResponse{
		Author: detail.Author.ToResponse(h.now()),
		Books:  books,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := authorID(c)
	if !ok {
		return
	}

	raw, err := request.Fields(c, formFields...)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, raw)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse(h.now()))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := authorID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// authorID parses the :id param. A malformed id names no author, so it is
// answered like an unknown one.
func authorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.FromError(c, model.ErrAuthorNotFound)
		return uuid.Nil, false
	}
	return id, true
}
