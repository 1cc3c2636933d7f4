package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Tokenlens API
// @version         0.1.0
// @description     Aggregated token info: on-chain quote, market metadata, social sentiment, AI narrative.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
