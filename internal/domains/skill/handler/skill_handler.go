package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio-backend/internal/domains/skill/model"
	"portfolio-backend/internal/domains/skill/repository"
	"portfolio-backend/internal/shared/response"
)

type Handler struct {
	repo repository.SkillRepository
}

func NewHandler(repo repository.SkillRepository) *Handler {
	return &Handler{repo: repo}
}

// List - GET /v1/skills
func (h *Handler) List(c *gin.Context) {
	skills, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to list skills")
		return
	}

	response.Success(c, http.StatusOK, skills)
}

// Create - POST /v1/skills
// Names are stored uppercase; portfolio skill lookups are uppercase too.
func (h *Handler) Create(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		response.BadRequest(c, "name is required")
		return
	}

	skill := &model.Skill{
		ID:        uuid.New(),
		Name:      strings.ToUpper(strings.TrimSpace(body.Name)),
		CreatedAt: time.Now(),
	}

	if err := h.repo.Create(c.Request.Context(), skill); err != nil {
		response.InternalServerError(c, "failed to create skill")
		return
	}

	response.Success(c, http.StatusCreated, skill)
}
