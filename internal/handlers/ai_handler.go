package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"khata-pos/internal/ai"
	"khata-pos/internal/models"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Message is required")
		return
	}

	// 1. Run the assistant against live shop data
	response, err := h.assistant.Ask(c.Request.Context(), req.Message)
	h.assistant.Log(req.Message, err)
	if errors.Is(err, ai.ErrNoAPIKey) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server missing Gemini API Key"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// 2. Return the Answer
	c.JSON(http.StatusOK, gin.H{"reply": response})
}

type ImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// AnalyzeImage identifies a photographed part and suggests catalog matches.
// A failed analysis answers with a nil detection, never an error.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Image is required")
		return
	}
	d := h.AI.Analyze(c.Request.Context(), req.Image)
	matches := []models.Product{}
	if d != nil {
		matches = h.suggest(d.PartType, d.Brand, "")
	}
	c.JSON(http.StatusOK, gin.H{"detection": d, "matches": matches})
}

type VoiceRequest struct {
	Query string `json:"query" binding:"required"`
}

// VoiceSearch turns a spoken request ("LG fridge ka relay") into a catalog search.
// Without Gemini the raw words are searched.
func (h *Handler) VoiceSearch(c *gin.Context) {
	var req VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Query is required")
		return
	}
	q := h.AI.InterpretVoice(c.Request.Context(), req.Query)
	if q == nil {
		c.JSON(http.StatusOK, gin.H{"interpreted": nil, "matches": h.Store.Products(req.Query, "")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interpreted": q,
		"matches":     h.suggest(q.Part, q.Brand, models.MachineType(q.MachineType)),
	})
}

// suggest searches by part, narrowing to the brand when that leaves anything.
func (h *Handler) suggest(part, brand string, machine models.MachineType) []models.Product {
	switch machine {
	case models.MachineAC, models.MachineFridge, models.MachineWashingMachine:
	default:
		machine = ""
	}
	found := h.Store.Products(part, machine)
	if brand = strings.TrimSpace(brand); brand == "" {
		return found
	}
	branded := []models.Product{}
	for _, p := range found {
		if strings.EqualFold(p.Brand, brand) {
			branded = append(branded, p)
		}
	}
	if len(branded) > 0 {
		return branded
	}
	if len(found) > 0 {
		return found
	}
	return h.Store.Products(brand, machine)
}
