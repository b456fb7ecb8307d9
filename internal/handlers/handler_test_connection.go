package handlers

import (
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/models"
	"analytics-proxy/internal/validation"
	"context"
	"io"
	"net/http"
)

// PostTestConnection probes Plausible with the credentials from the body. Nothing is cached.
func PostTestConnection(ctx *middlewares.AppContext) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.HandleError(middlewares.NewHTTPError(http.StatusBadRequest, "unable to read request body: %w", err))
		return
	}

	req, err := validation.ParseTestConnectionRequest(body)
	if err != nil {
		ctx.HandleError(err)
		return
	}

	if !ctx.Plausible.TestConnection(context.WithoutCancel(ctx), req.APIKey, req.SiteID) {
		ctx.WriteJSON(http.StatusUnauthorized, models.NewErrorEnvelope("Connection failed", "invalid API key or site ID"))
		return
	}

	envelope := models.NewSuccessEnvelope(nil, nil)
	envelope.Message = "Successfully connected to the Plausible API"
	envelope.SiteID = req.SiteID
	ctx.WriteJSON(http.StatusOK, envelope)
}
