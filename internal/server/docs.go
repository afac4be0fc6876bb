package server

// @title Ush API
// @version 1.0
// @description Environment reconciliation and ticket board API for ush

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7680
// @BasePath /api
// @schemes http
