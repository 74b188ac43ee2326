package http

import "github.com/gin-gonic/gin"

// NewRouter wires the JSON API routes onto a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/login", h.login)
		api.GET("/me", h.me)

		api.GET("/customers", h.listCustomers)
		api.POST("/customers", h.saveCustomer)
		api.DELETE("/customers/:id", h.deleteCustomer)

		api.GET("/estimates", h.listEstimates)
		api.POST("/estimates", h.saveEstimate)
		api.DELETE("/estimates/:id", h.deleteEstimate)

		api.GET("/inventory", h.listInventory)
		api.POST("/inventory", h.saveInventoryItem)
		api.DELETE("/inventory/:id", h.deleteInventoryItem)

		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.putSettings)

		api.GET("/export", h.exportSnapshot)
		api.POST("/import", h.importSnapshot)
		api.POST("/clear", h.clearAccount)
	}

	return r
}
