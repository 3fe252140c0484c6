package validation

// ValidatePostText checks the text of a post or comment.
func ValidatePostText(text string) Errors {
	errs := make(Errors)
	switch {
	case blank(text):
		errs.Add("text", "Text field is required")
	case !between(text, 10, 300):
		errs.Add("text", "Text should be between 10 and 300 characters")
	}
	return errs
}
