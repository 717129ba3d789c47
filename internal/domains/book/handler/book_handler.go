package handler

import (
	"net/http"
	"time"

	authormodel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	service "library-catalog/internal/domains/book/service"
	"library-catalog/internal/shared/request"
	"library-catalog/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var formFields = []string{
	model.FieldTitle,
	model.FieldAuthor,
	model.FieldSummary,
	model.FieldISBN,
}

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
	now     func() time.Time
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

// BookDetailResponse carries the resolved author next to the book. Author is
// omitted when the reference could not be resolved.
type BookDetailResponse struct {
	Book   *model.BookResponse         `json:"book"`
	Author *authormodel.AuthorResponse `json:"author,omitempty"`
}

// AuthorOption is one entry of the book form's author picker.
type AuthorOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ListBooks - GET /v1/books?title=
func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.service.List(c.Request.Context(), c.Query("title"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	res := make([]*model.BookResponse, len(books))
	for i := range books {
		res[i] = books[i].ToResponse()
	}

	response.SuccessWithMeta(c, http.StatusOK, res, &response.Meta{Total: len(res)})
}

// CreateBook - POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
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
	response.Success(c, http.StatusCreated, created.ToResponse())
}

// GetBookDetail - GET /v1/books/:id
func (h *Handler) GetBookDetail(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	res := &BookDetailResponse{Book: detail.Book.ToResponse()}
	if detail.Author != nil {
		res.Author = detail.Author.ToResponse(h.now())
	}
	response.Success(c, http.StatusOK, res)
}

// UpdateBook - PUT /v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
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

	response.Success(c, http.StatusOK, updated.ToResponse())
}

// DeleteBook - DELETE /v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AuthorOptions - GET /v1/books/form/authors
func (h *Handler) AuthorOptions(c *gin.Context) {
	authors, err := h.service.AuthorOptions(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	opts := make([]AuthorOption, len(authors))
	for i, a := range authors {
		opts[i] = AuthorOption{ID: a.ID, Name: a.FamilyName + ", " + a.FirstName}
	}
	response.Success(c, http.StatusOK, opts)
}

func bookID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.FromError(c, model.ErrBookNotFound)
		return uuid.Nil, false
	}
	return id, true
}
