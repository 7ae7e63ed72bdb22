package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"casri/services"
)

type HistoryController struct {
	histories *services.HistoryService
}

func NewHistoryController(histories *services.HistoryService) *HistoryController {
	return &HistoryController{histories: histories}
}

func (hc *HistoryController) MyDailySales(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	h, err := hc.histories.MyToday(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, err, "No sales history for today")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h})
}

func (hc *HistoryController) MyHistory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	histories, err := hc.histories.MyAll(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, err, "No sales history found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": histories})
}

func (hc *HistoryController) ByDate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	date := c.Param("date")
	h, day, err := hc.histories.ForDate(c.Request.Context(), a.ID, date)
	if err != nil {
		respondError(c, err, fmt.Sprintf("No sales history for %s", date))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h, "date": day.Label()})
}
