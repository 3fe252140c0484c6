package models

import (
	"slices"
	"time"
)

// Social holds optional social network links.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Experience is one entry of a profile's work history.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one entry of a profile's schooling history.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the public developer profile. One per user, one per handle.
type Profile struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	UserID         uint                 `gorm:"uniqueIndex;not null" json:"-"`
	User           *User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Handle         string               `gorm:"uniqueIndex;size:40;not null" json:"handle"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	Status         string               `gorm:"not null" json:"status"`
	GitHubUsername string               `gorm:"column:github_username" json:"githubusername,omitempty"`
	Skills         JSONList[string]     `gorm:"not null" json:"skills"`
	Social         Social               `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     JSONList[Experience] `gorm:"not null" json:"experience"`
	Education      JSONList[Education]  `gorm:"not null" json:"education"`
	Date           time.Time            `gorm:"autoCreateTime" json:"date"`
	UpdatedAt      time.Time            `json:"-"`
}

// ProfilePatch carries the fields of a profile create-or-update request.
// A nil field was not supplied and leaves the stored value untouched; a
// non-nil pointer to "" is an explicit value.
type ProfilePatch struct {
	Handle         *string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	YouTube        *string
	Instagram      *string
	Facebook       *string
	Twitter        *string
	LinkedIn       *string
}

// Apply merges the supplied fields of the patch over p.
func (patch ProfilePatch) Apply(p *Profile) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Handle, patch.Handle)
	set(&p.Company, patch.Company)
	set(&p.Website, patch.Website)
	set(&p.Location, patch.Location)
	set(&p.Bio, patch.Bio)
	set(&p.Status, patch.Status)
	set(&p.GitHubUsername, patch.GitHubUsername)
	if patch.Skills != nil {
		p.Skills = slices.Clone(patch.Skills)
	}
	set(&p.Social.YouTube, patch.YouTube)
	set(&p.Social.Instagram, patch.Instagram)
	set(&p.Social.Facebook, patch.Facebook)
	set(&p.Social.Twitter, patch.Twitter)
	set(&p.Social.LinkedIn, patch.LinkedIn)
}

// AddExperience prepends e.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = slices.Insert(p.Experience, 0, e)
}

// RemoveExperience removes the entry with the given id.
func (p *Profile) RemoveExperience(id string) error {
	i := slices.IndexFunc(p.Experience, func(e Experience) bool { return e.ID == id })
	if i < 0 {
		return NewNotFoundError("Experience", id)
	}
	p.Experience = slices.Delete(p.Experience, i, i+1)
	return nil
}

// AddEducation prepends e.
func (p *Profile) AddEducation(e Education) {
	p.Education = slices.Insert(p.Education, 0, e)
}

// RemoveEducation removes the entry with the given id.
func (p *Profile) RemoveEducation(id string) error {
	i := slices.IndexFunc(p.Education, func(e Education) bool { return e.ID == id })
	if i < 0 {
		return NewNotFoundError("Education", id)
	}
	p.Education = slices.Delete(p.Education, i, i+1)
	return nil
}

// NewNoProfileError is the not-found error of the profile read endpoints.
func NewNoProfileError(message string) *AppError {
	return (&AppError{
		Code:    CodeNotFound,
		Message: message,
	}).WithField("noprofile", message)
}
