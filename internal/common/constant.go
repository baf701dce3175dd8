package common

// AuthorizationHeaderName carries the Supabase session token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// AdminKeyHeaderName carries the debug panel key.
const AdminKeyHeaderName = "X-Admin-Key"

// RequestIDHeaderName is echoed on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"
