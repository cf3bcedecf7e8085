package domain

// Team is a collaborative group that can own recipes.
type Team struct {
	ID   int64
	Name string
}

// TeamMembership links a user to a team. Only active memberships grant
// access to the team's recipes.
type TeamMembership struct {
	UserID   int64
	TeamID   int64
	IsActive bool
}
