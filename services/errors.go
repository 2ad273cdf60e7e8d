package services

import "errors"

var (
	ErrGatewayFailure  = errors.New("analysis gateway failure")
	ErrSchemaViolation = errors.New("response does not match schema")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNotStarted      = errors.New("app not started")
	ErrNoRecipeOverlay = errors.New("no recipe result open")
	ErrReadOnlyRecipe  = errors.New("recipe is already saved")
	ErrPaymentDeclined = errors.New("payment declined")
)
