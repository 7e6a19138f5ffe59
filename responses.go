package main

import "github.com/ttpr0/go-raptor/structs"

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, err any) ErrorResponse {
	return ErrorResponse{Request: request, Error: err}
}

type RoutingResponse struct {
	Paths []structs.Path `json:"paths"`
}
