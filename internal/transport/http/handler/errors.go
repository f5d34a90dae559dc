package handler

const (
	errInternalServer     = "Internal server error"
	errUnauthorized       = "Unauthorized"
	errTokenInvalid       = "Invalid or expired token"
	errInvalidCredentials = "Invalid email or password"
	errEmailExists        = "User already exists with this email"

	errArticleNotFound = "Article not found"
	errForbidden       = "You do not have access to this article"
	errOwnerMismatch   = "userId must match the authenticated user"
	errTextRequired    = "Text is required"
)
