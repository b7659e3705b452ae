package user

// RegisterRequest is the payload of the sign-up form.
type RegisterRequest struct {
	Name            string
	Mobile          string
	Password        string
	ConfirmPassword string
	Role            Role
}

// UpdateProfileRequest replaces name, mobile and profile. Empty Name or
// Mobile keep the current value.
type UpdateProfileRequest struct {
	Name    string
	Mobile  string
	Profile Profile
}
