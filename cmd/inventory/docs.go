package main

// @title Inventory Analytics API
// @version 1.0
// @description Inventory items and ABC analysis with full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-analytics

// @host localhost:8082
// @BasePath /

// @tag.name Items
// @tag.description Inventory item management endpoints

// @tag.name ABC
// @tag.description ABC classification and stock status reports

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
