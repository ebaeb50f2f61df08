package globals

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

// RoleAdmin is the only role the site issues.
const RoleAdmin = "admin"
