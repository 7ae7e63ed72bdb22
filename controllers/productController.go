package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"casri/middleware"
	"casri/models"
	"casri/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) AddProduct(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var in services.ProductInput
	if !bind(c, &in) {
		return
	}

	product, err := pc.products.CreateToday(c.Request.Context(), a.ID, in)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	middleware.ProductsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product successfully added to daily sales.",
		"product": product,
	})
}

func (pc *ProductController) AddProductByDate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var in services.ProductInput
	if !bind(c, &in) {
		return
	}

	date := c.Param("date")
	product, err := pc.products.CreateOnDate(c.Request.Context(), a.ID, date, in)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	middleware.ProductsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Product successfully added to sales for %s", date),
		"product": product,
	})
}

func (pc *ProductController) GetAllDaily(c *gin.Context) {
	products, err := pc.products.Daily(c.Request.Context())
	if err != nil {
		respondError(c, err, "No products were sold today")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Today's products fetched successfully",
		"products": products,
		"total":    models.ProductsTotal(products),
	})
}

func (pc *ProductController) GetMyDaily(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	products, err := pc.products.MyDaily(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, err, "No products found for today")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Today's products fetched successfully",
		"products": products,
		"total":    models.ProductsTotal(products),
	})
}

func (pc *ProductController) GetByDate(c *gin.Context) {
	date := c.Param("date")
	products, day, err := pc.products.ByDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err, fmt.Sprintf("No data found for %s", date))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Products fetched successfully for %s", day.Label()),
		"data":     products,
		"products": products,
		"total":    models.ProductsTotal(products),
		"date":     day.Label(),
	})
}

func (pc *ProductController) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	var patch services.ProductPatch
	if !bind(c, &patch) {
		return
	}

	product, err := pc.products.Update(c.Request.Context(), a, id, patch)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product successfully updated.", "product": product})
}

func (pc *ProductController) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := pc.products.Delete(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "product": product})
}

func (pc *ProductController) GetAllUserProducts(c *gin.Context) {
	groups, err := pc.products.UsersDaily(c.Request.Context())
	if err != nil {
		respondError(c, err, "No products found for any user today")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Daily products fetched successfully",
		"data":    groups,
	})
}

func (pc *ProductController) GetAllUsersByDate(c *gin.Context) {
	date := c.Param("date")
	groups, day, err := pc.products.UsersByDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err, fmt.Sprintf("No products found for any user on %s", date))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Products fetched successfully for %s", day.Label()),
		"data":    groups,
		"date":    day.Label(),
	})
}
