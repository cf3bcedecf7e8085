package domain

// User is an account identity. Within the recipe view it is only a join
// key and a source of creator email/name for notes and timeline events.
type User struct {
	ID    int64
	Email string
	Name  *string
}
