package controller

import "github.com/gin-gonic/gin"

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, ErrorPayload{Code: code, Message: message})
}
