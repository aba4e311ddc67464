package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-service/internal/api/middleware"
	"qa-service/internal/models"
	"qa-service/internal/services"
	"qa-service/pkg/response"
)

type AnswerHandler struct {
	answers *services.AnswerService
	votes   *services.VoteService
}

func NewAnswerHandler(answers *services.AnswerService, votes *services.VoteService) *AnswerHandler {
	return &AnswerHandler{answers: answers, votes: votes}
}

// ListForQuestion godoc
// @Summary List answers for a question
// @Tags answers
// @Produce json
// @Param questionId path int true "Question ID"
// @Param sort query string false "votes | newest | oldest (default votes)"
// @Success 200 {object} map[string]interface{} "Answers"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /answers/questions/{questionId} [get]
func (h *AnswerHandler) ListForQuestion(c *gin.Context) {
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	answers, err := h.answers.ListForQuestion(c.Request.Context(), questionID, c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Answers retrieved successfully", gin.H{"answers": answers})
}

// Create godoc
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path int true "Question ID"
// @Param request body models.CreateAnswerRequest true "Answer content"
// @Success 201 {object} map[string]interface{} "Answer created"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /answers/questions/{questionId} [post]
func (h *AnswerHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	var req models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), user, questionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "Answer created successfully", gin.H{"answer": answer.ToResponse()})
}

// Update godoc
// @Summary Edit an answer
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param request body models.UpdateAnswerRequest true "New content"
// @Success 200 {object} map[string]interface{} "Answer updated"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Answer not found"
// @Router /answers/{id} [put]
func (h *AnswerHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	answer, err := h.answers.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Answer updated successfully", gin.H{"answer": answer.ToResponse()})
}

// Delete godoc
// @Summary Delete an answer
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} map[string]interface{} "Answer deleted"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Answer not found"
// @Router /answers/{id} [delete]
func (h *AnswerHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.answers.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Answer deleted successfully", nil)
}

// Vote godoc
// @Summary Vote on an answer
// @Description Casts, toggles off or switches the caller's vote
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param request body models.AnswerVoteRequest true "Vote type"
// @Success 200 {object} map[string]interface{} "Updated counters"
// @Failure 404 {object} map[string]interface{} "Answer not found"
// @Router /answers/{id}/vote [post]
func (h *AnswerHandler) Vote(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.AnswerVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Vote type must be 'upvote' or 'downvote'")
		return
	}

	direction := models.VoteUp
	if req.VoteType == "downvote" {
		direction = models.VoteDown
	}

	answer, _, err := h.votes.VoteAnswer(c.Request.Context(), user, id, direction)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Vote recorded successfully", gin.H{
		"upvotes":   answer.Upvotes,
		"downvotes": answer.Downvotes,
		"voteScore": answer.VoteScore(),
	})
}

// Accept godoc
// @Summary Accept an answer
// @Description Marks the answer as accepted; only the question's author may accept
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} map[string]interface{} "Answer accepted"
// @Failure 403 {object} map[string]interface{} "Not the question author"
// @Failure 404 {object} map[string]interface{} "Answer not found"
// @Router /answers/{id}/accept [post]
func (h *AnswerHandler) Accept(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	answer, err := h.answers.Accept(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Answer accepted successfully", gin.H{"answer": answer.ToResponse()})
}
