// Package service contains the application's business logic, sitting between
// the HTTP handlers and the store.
package service

import (
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()
