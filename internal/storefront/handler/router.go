package handler

import "github.com/julienschmidt/httprouter"

func (h *StorefrontHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/", h.Home)
	router.GET("/experiences/:id", h.Details)

	router.GET("/checkout", h.NoBooking)
	router.POST("/checkout", h.StartCheckout)
	router.GET("/checkout/:sid", h.Checkout)
	router.POST("/checkout/:sid/promo", h.ApplyPromo)
	router.POST("/checkout/:sid/confirm", h.Confirm)

	router.GET("/result/:sid", h.Result)

	router.NotFound = h.notFoundHandler()
}
