package validation

// ValidateRegister checks a registration request.
func ValidateRegister(name, email, password string) Errors {
	errs := make(Errors)

	switch {
	case blank(name):
		errs.Add("name", "Name field is required")
	case !between(name, 1, 30):
		errs.Add("name", "Name must be at most 30 characters")
	}

	switch {
	case blank(email):
		errs.Add("email", "Email field is required")
	case !isEmail(email):
		errs.Add("email", "Email is invalid")
	}

	switch {
	case password == "":
		errs.Add("password", "Password field is required")
	case !between(password, 6, 30):
		errs.Add("password", "Password must be at least 6 characters")
	}

	return errs
}

// ValidateLogin checks a login request.
func ValidateLogin(email, password string) Errors {
	errs := make(Errors)

	switch {
	case blank(email):
		errs.Add("email", "Email field is required")
	case !isEmail(email):
		errs.Add("email", "Email is invalid")
	}
	if password == "" {
		errs.Add("password", "Password field is required")
	}

	return errs
}
