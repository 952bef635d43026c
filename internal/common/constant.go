package common

// AuthorizationHeaderName carries the bearer token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme the server accepts.
const BearerScheme = "Bearer"

// RequestIDHeaderName correlates a request across logs and responses.
const RequestIDHeaderName = "X-Request-ID"
