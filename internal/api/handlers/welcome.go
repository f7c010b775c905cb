package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/stock-manager/internal/utils/response"
)

type welcome struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Welcome godoc
//	@Summary	API root
//	@Tags		Meta
//	@Produce	json
//	@Success	200	{object}	response.APIResponse
//	@Router		/ [get]
func Welcome(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, welcome{Message: "Welcome to the stock manager API", Version: version})
	}
}
