package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-service/internal/api/middleware"
	"qa-service/internal/services"
	"qa-service/pkg/response"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UploadAvatar godoc
// @Summary Upload an avatar
// @Description Multipart upload, images only, 2MB max
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} map[string]interface{} "Avatar URL"
// @Failure 400 {object} map[string]interface{} "Not an image or too large"
// @Router /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar file is required")
		return
	}

	url, err := h.users.UploadAvatar(c.Request.Context(), user.ID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Avatar uploaded successfully", gin.H{"avatarUrl": url})
}
