package validation

import (
	"time"

	"devconnector/internal/models"
)

// ValidateProfile checks a profile create-or-update request. Handle, status
// and skills are required when creating; on update only supplied fields are
// checked.
func ValidateProfile(p models.ProfilePatch, creating bool) Errors {
	errs := make(Errors)

	if p.Handle != nil || creating {
		switch {
		case p.Handle == nil || blank(*p.Handle):
			errs.Add("handle", "Profile handle is required")
		case !between(*p.Handle, 2, 40):
			errs.Add("handle", "Handle needs to be between 2 and 40 characters")
		}
	}
	if p.Status != nil || creating {
		if p.Status == nil || blank(*p.Status) {
			errs.Add("status", "Status field is required")
		}
	}
	if p.Skills != nil || creating {
		if len(p.Skills) == 0 {
			errs.Add("skills", "Skills field is required")
		}
	}

	urls := map[string]*string{
		"website":   p.Website,
		"youtube":   p.YouTube,
		"twitter":   p.Twitter,
		"facebook":  p.Facebook,
		"linkedin":  p.LinkedIn,
		"instagram": p.Instagram,
	}
	for field, v := range urls {
		if v != nil && !blank(*v) && !isURL(*v) {
			errs.Add(field, "Not a valid URL")
		}
	}

	return errs
}

// ValidateExperience checks a work history entry.
func ValidateExperience(title, company string, from time.Time) Errors {
	errs := make(Errors)
	if blank(title) {
		errs.Add("title", "Job title field is required")
	}
	if blank(company) {
		errs.Add("company", "Company field is required")
	}
	if from.IsZero() {
		errs.Add("from", "From date field is required")
	}
	return errs
}

// ValidateEducation checks a schooling entry.
func ValidateEducation(school, degree, fieldOfStudy string, from time.Time) Errors {
	errs := make(Errors)
	if blank(school) {
		errs.Add("school", "School field is required")
	}
	if blank(degree) {
		errs.Add("degree", "Degree field is required")
	}
	if blank(fieldOfStudy) {
		errs.Add("fieldofstudy", "Field of study field is required")
	}
	if from.IsZero() {
		errs.Add("from", "From date field is required")
	}
	return errs
}
