package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qa-service/internal/api/middleware"
	"qa-service/internal/models"
	"qa-service/internal/services"
	"qa-service/pkg/response"
)

type QuestionHandler struct {
	questions *services.QuestionService
	votes     *services.VoteService
}

func NewQuestionHandler(questions *services.QuestionService, votes *services.VoteService) *QuestionHandler {
	return &QuestionHandler{questions: questions, votes: votes}
}

// List godoc
// @Summary List questions
// @Description Paginated question list with search, tag filter and sorting
// @Tags questions
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param search query string false "Substring match over title, description and tags"
// @Param tags query string false "Comma separated tags, match any"
// @Param sort query string false "newest | oldest | most_answers | most_views | best_voted"
// @Success 200 {object} map[string]interface{} "Questions with pagination"
// @Router /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	query := h.parseListQuery(c)

	questions, pagination, err := h.questions.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Questions retrieved successfully", gin.H{
		"questions":  questions,
		"pagination": pagination,
	})
}

// ListMine godoc
// @Summary List the caller's questions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Questions with pagination"
// @Router /questions/user/me [get]
func (h *QuestionHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := h.parseListQuery(c)
	query.AuthorID = &user.ID

	questions, pagination, err := h.questions.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Questions retrieved successfully", gin.H{
		"questions":  questions,
		"pagination": pagination,
	})
}

// ListByUser godoc
// @Summary List another user's questions
// @Tags questions
// @Produce json
// @Param userId path int true "Author ID"
// @Success 200 {object} map[string]interface{} "Questions with pagination"
// @Router /questions/user/{userId} [get]
func (h *QuestionHandler) ListByUser(c *gin.Context) {
	authorID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	query := h.parseListQuery(c)
	query.AuthorID = &authorID

	questions, pagination, err := h.questions.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Questions retrieved successfully", gin.H{
		"questions":  questions,
		"pagination": pagination,
	})
}

// Get godoc
// @Summary Get a question
// @Description Returns one question and counts the view
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} map[string]interface{} "The question"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	question, err := h.questions.Get(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Question retrieved successfully", gin.H{"question": question.ToResponse()})
}

// Create godoc
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateQuestionRequest true "Question data"
// @Success 201 {object} map[string]interface{} "Question created"
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Router /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	question, err := h.questions.Create(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "Question created successfully", gin.H{"question": question.ToResponse()})
}

// Update godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body models.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} map[string]interface{} "Question updated"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /questions/{id} [put]
func (h *QuestionHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	question, err := h.questions.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Question updated successfully", gin.H{"question": question.ToResponse()})
}

// Delete godoc
// @Summary Delete a question
// @Description Removes the question together with its answers and votes
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} map[string]interface{} "Question deleted"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Question deleted successfully", nil)
}

// Vote godoc
// @Summary Vote on a question
// @Description Casts, toggles off or switches the caller's vote
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body models.QuestionVoteRequest true "Vote direction"
// @Success 200 {object} map[string]interface{} "Updated counters"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /questions/{id}/vote [post]
func (h *QuestionHandler) Vote(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.QuestionVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Vote type must be 'up' or 'down'")
		return
	}

	question, _, err := h.votes.VoteQuestion(c.Request.Context(), user, id, models.VoteDirection(req.Type))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Vote recorded successfully", gin.H{
		"upvotes":   question.Upvotes,
		"downvotes": question.Downvotes,
		"voteScore": question.VoteScore(),
	})
}

func (h *QuestionHandler) parseListQuery(c *gin.Context) models.ListQuestionsQuery {
	query := models.ListQuestionsQuery{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   c.Query("sort"),
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}
	return query
}
