package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/valyala/fasthttp"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		ctx.Error(http.StatusText(http.StatusInternalServerError), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func respondError(ctx *fasthttp.RequestCtx, err error) {
	respondJSON(ctx, mapError(err), errorBody{Error: err.Error()})
}

func mapError(err error) int {
	var rej *client.RejectedError
	switch {
	case errors.Is(err, common.ErrorValidation):
		return fasthttp.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, client.ErrUnauthorized):
		return fasthttp.StatusUnauthorized
	case errors.Is(err, client.ErrUnavailable), errors.As(err, &rej):
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}
