package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casri/middleware"
	"casri/models"
	"casri/services"
)

type LiabilityController struct {
	liabilities *services.LiabilityService
}

func NewLiabilityController(liabilities *services.LiabilityService) *LiabilityController {
	return &LiabilityController{liabilities: liabilities}
}

type settleRequest struct {
	RecordSale bool `json:"recordSale"`
}

func (lc *LiabilityController) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var in services.LiabilityInput
	if !bind(c, &in) {
		return
	}

	l, err := lc.liabilities.Create(c.Request.Context(), a, in)
	if err != nil {
		respondError(c, err, "Liability not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Liability added successfully", "data": l})
}

func (lc *LiabilityController) GetAll(c *gin.Context) {
	liabilities, err := lc.liabilities.All(c.Request.Context())
	if err != nil {
		respondError(c, err, "No liabilities found")
		return
	}
	outstanding, err := lc.liabilities.Outstanding(c.Request.Context())
	if err != nil {
		respondError(c, err, "No liabilities found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        liabilities,
		"outstanding": outstanding.Total,
		"pending":     outstanding.Count,
	})
}

func (lc *LiabilityController) GetDaily(c *gin.Context) {
	liabilities, err := lc.liabilities.Daily(c.Request.Context())
	if err != nil {
		respondError(c, err, "No liabilities found for today")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": liabilities})
}

// Paid settles a liability. recordSale comes from the JSON body or the
// query string.
func (lc *LiabilityController) Paid(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req settleRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}
	if q := c.Query("recordSale"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "recordSale must be true or false"})
			return
		}
		req.RecordSale = v
	}

	out, err := lc.liabilities.Settle(c.Request.Context(), a, id, req.RecordSale)
	if err != nil {
		respondError(c, err, "Liability not found")
		return
	}
	middleware.LiabilitiesSettled.WithLabelValues(string(models.LiabilityPaid)).Inc()
	if out.Sale != nil {
		middleware.ProductsCreated.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"message": "Liability marked as paid", "data": out})
}

func (lc *LiabilityController) Reverse(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	l, err := lc.liabilities.Reverse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Liability not found")
		return
	}
	middleware.LiabilitiesSettled.WithLabelValues(string(models.LiabilityReversed)).Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Liability reversed", "data": l})
}

func (lc *LiabilityController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	l, err := lc.liabilities.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Liability not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Liability deleted successfully", "data": l})
}
