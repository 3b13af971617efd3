package handlers

// @title Figma Insights API
// @version 1.0
// @description Relays a design frame and a prompt from the Figma plugin to Gemini
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @tag.name analyze
// @tag.description Frame analysis and image generation
