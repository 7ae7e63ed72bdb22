package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casri/middleware"
	"casri/services"
)

type FinancialController struct {
	logs *services.FinancialService
}

func NewFinancialController(logs *services.FinancialService) *FinancialController {
	return &FinancialController{logs: logs}
}

func (fc *FinancialController) Create(c *gin.Context) {
	var in services.FinancialInput
	if !bind(c, &in) {
		return
	}

	log, err := fc.logs.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Financial log not found")
		return
	}
	middleware.FinancialLogsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Today's financial log created successfully",
		"data":    log,
	})
}

func (fc *FinancialController) GetByDate(c *gin.Context) {
	logs, day, err := fc.logs.ByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err, "No data found for this specific date")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs, "date": day.Label()})
}

func (fc *FinancialController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.FinancialInput
	if !bind(c, &in) {
		return
	}

	report, err := fc.logs.UpdateLineItems(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Financial log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Financial log updated", "data": report})
}

func (fc *FinancialController) Recompute(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	report, err := fc.logs.Recompute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Financial log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Financial log totals recomputed", "data": report})
}

func (fc *FinancialController) Reconcile(c *gin.Context) {
	reports, sales, day, err := fc.logs.Reconcile(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err, "No data found for this specific date")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Reconciliation computed",
		"data":          reports,
		"productsTotal": sales,
		"date":          day.Label(),
	})
}
