package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/handler/http/dto"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// PostHandlerInterface defines the methods for Post handler to allow interface-based dependency injection (for testing/mocking)
type PostHandlerInterface interface {
	CreatePostHandler(*gin.Context)
	GetFeedHandler(*gin.Context)
	GetPostDetailHandler(*gin.Context)
	UpdatePostHandler(*gin.Context)
	DeletePostHandler(*gin.Context)
	GetTagsHandler(*gin.Context)
}

// Ensure PostHandler implements PostHandlerInterface
var _ PostHandlerInterface = (*PostHandler)(nil)

type PostHandler struct {
	postUsecase usecasecontract.IPostUseCase
}

func NewPostHandler(postUsecase usecasecontract.IPostUseCase) *PostHandler {
	return &PostHandler{
		postUsecase: postUsecase,
	}
}

// CreatePostHandler
func (h *PostHandler) CreatePostHandler(cxt *gin.Context) {
	authorID, ok := currentUserID(cxt)
	if !ok {
		ErrorHandler(cxt, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dto.CreatePostRequest
	if err := BindAndValidate(cxt, &req); err != nil {
		return
	}

	post, err := h.postUsecase.CreatePost(cxt.Request.Context(), authorID, req.Title, req.Content, req.ImageURL, req.Tags)
	if err != nil {
		HandleUsecaseError(cxt, err)
		return
	}

	SuccessHandler(cxt, http.StatusCreated, dto.ToPostResponse(post))
}

// GetFeedHandler
func (h *PostHandler) GetFeedHandler(cxt *gin.Context) {
	page, err := strconv.Atoi(cxt.DefaultQuery("page", "1"))
	if err != nil {
		ErrorHandler(cxt, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(cxt.DefaultQuery("pageSize", strconv.Itoa(entity.DefaultFeedPageSize)))
	if err != nil {
		ErrorHandler(cxt, http.StatusBadRequest, "Invalid page size")
		return
	}

	feed, err := h.postUsecase.ListFeed(cxt.Request.Context(), entity.FeedQuery{
		Tag:      cxt.Query("tag"),
		Search:   cxt.Query("q"),
		AuthorID: cxt.Query("author"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		HandleUsecaseError(cxt, err)
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ToFeedResponse(feed))
}

// GetPostDetailHandler
func (h *PostHandler) GetPostDetailHandler(cxt *gin.Context) {
	detail, err := h.postUsecase.GetPost(cxt.Request.Context(), cxt.Param("postID"))
	if err != nil {
		HandleUsecaseError(cxt, err)
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ToPostDetailResponse(detail))
}

// UpdatePostHandler
func (h *PostHandler) UpdatePostHandler(cxt *gin.Context) {
	userID, ok := currentUserID(cxt)
	if !ok {
		ErrorHandler(cxt, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dto.UpdatePostRequest
	if err := BindAndValidate(cxt, &req); err != nil {
		return
	}

	post, err := h.postUsecase.UpdatePost(cxt.Request.Context(), cxt.Param("postID"), userID, req.ToPatch())
	if err != nil {
		HandleUsecaseError(cxt, err)
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ToPostResponse(post))
}

// DeletePostHandler
func (h *PostHandler) DeletePostHandler(cxt *gin.Context) {
	userID, ok := currentUserID(cxt)
	if !ok {
		ErrorHandler(cxt, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.postUsecase.DeletePost(cxt.Request.Context(), cxt.Param("postID"), userID); err != nil {
		HandleUsecaseError(cxt, err)
		return
	}

	MessageHandler(cxt, http.StatusOK, "Post deleted successfully")
}

// GetTagsHandler
func (h *PostHandler) GetTagsHandler(cxt *gin.Context) {
	SuccessHandler(cxt, http.StatusOK, dto.TagsResponse{Tags: h.postUsecase.ListTags()})
}
