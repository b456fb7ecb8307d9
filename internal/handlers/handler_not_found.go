package handlers

import (
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/models"
	"fmt"
	"net/http"
)

func HandlerNotFound(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusNotFound, models.NewErrorEnvelope(
		"Route not found",
		fmt.Sprintf("The endpoint %s does not exist", ctx.Request.URL.RequestURI()),
	))
}
