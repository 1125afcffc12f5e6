package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/handler/http/dto"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

type InteractionHandler struct {
	likeUsecase usecasecontract.ILikeUseCase
}

func NewInteractionHandler(likeUsecase usecasecontract.ILikeUseCase) *InteractionHandler {
	return &InteractionHandler{
		likeUsecase: likeUsecase,
	}
}

// ToggleLikeHandler flips the caller's like on a post. The user always comes from the token.
// A failed toggle answers with an error status only, so the client keeps its previous state.
func (h *InteractionHandler) ToggleLikeHandler(c *gin.Context) {
	postID := c.Param("postID")
	userID, ok := currentUserID(c)
	if !ok {
		ErrorHandler(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	state, err := h.likeUsecase.ToggleLikeState(c.Request.Context(), postID, userID)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	SuccessHandler(c, http.StatusOK, dto.LikeToggleResponse{
		Liked:     state.Liked,
		LikeCount: state.LikeCount,
	})
}

// GetLikedStateHandler reports whether the caller currently likes a post.
func (h *InteractionHandler) GetLikedStateHandler(c *gin.Context) {
	postID := c.Param("postID")
	userID, ok := currentUserID(c)
	if !ok {
		ErrorHandler(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	liked, err := h.likeUsecase.GetInitialLikedState(c.Request.Context(), postID, userID)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	SuccessHandler(c, http.StatusOK, dto.LikedStateResponse{Liked: liked})
}
