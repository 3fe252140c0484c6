// Package seed populates a database with demo users, profiles and posts.
// It is intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a cheap hash for faster local runs.
	SkipBcrypt bool
	// MaxDays bounds how far back post dates are spread.
	MaxDays int
}

var (
	statuses = []string{
		"Developer", "Junior Developer", "Senior Developer", "Manager",
		"Student or Learning", "Instructor or Teacher", "Intern",
	}

	skillPool = []string{
		"Go", "SQL", "Postgres", "Redis", "Docker", "Kubernetes", "JavaScript",
		"TypeScript", "React", "HTML", "CSS", "Python", "Rust", "AWS", "Linux",
	}
)

// Factory builds domain entities and persists them.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
	hash string
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())

	hash := DemoPassword
	if !opts.SkipBcrypt {
		b, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), service.PasswordCost)
		if err != nil {
			return nil, err
		}
		hash = string(b)
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}

	return &Factory{
		db:   db,
		opts: opts,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
		hash: hash,
	}, nil
}

// CreateUser persists a fake user. All users share the demo password hash.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	email := strings.ToLower(fmt.Sprintf("%s.%d@%s",
		gofakeit.Username(), gofakeit.Number(1000, 9999), gofakeit.DomainName()))
	user := &models.User{
		Name:     truncate(gofakeit.Name(), 30),
		Email:    email,
		Password: f.hash,
		Avatar:   service.GravatarURL(email),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile persists a fake profile for user. The handle is derived from
// the user id so it stays unique.
func (f *Factory) CreateProfile(user *models.User) (*models.Profile, error) {
	handle := fmt.Sprintf("%s-%d", slug(user.Name), user.ID)
	start := gofakeit.DateRange(time.Now().AddDate(-10, 0, 0), time.Now().AddDate(-1, 0, 0))

	profile := &models.Profile{
		UserID:         user.ID,
		Handle:         truncate(handle, 40),
		Company:        gofakeit.Company(),
		Website:        gofakeit.URL(),
		Location:       gofakeit.City(),
		Bio:            gofakeit.Sentence(12),
		Status:         statuses[f.rnd.Intn(len(statuses))],
		GitHubUsername: gofakeit.Username(),
		Skills:         f.pickSkills(),
		Social: models.Social{
			Twitter:  "https://twitter.com/" + gofakeit.Username(),
			LinkedIn: "https://linkedin.com/in/" + gofakeit.Username(),
		},
		Experience: models.JSONList[models.Experience]{{
			ID:       uuid.NewString(),
			Title:    gofakeit.JobTitle(),
			Company:  gofakeit.Company(),
			Location: gofakeit.City(),
			From:     start,
			Current:  true,
		}},
		Education: models.JSONList[models.Education]{},
	}

	if err := f.db.Omit("User").Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreatePost persists a fake post by author, liked and commented on by a
// random subset of others.
func (f *Factory) CreatePost(author *models.User, others []*models.User) (*models.Post, error) {
	post := &models.Post{
		UserID:   author.ID,
		Text:     truncate(gofakeit.Paragraph(1, 3, 12, " "), 300),
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    models.JSONList[models.Like]{},
		Comments: models.JSONList[models.Comment]{},
		Date:     f.pastDate(),
	}

	for _, u := range others {
		if u.ID == author.ID {
			continue
		}
		if f.rnd.Intn(3) == 0 {
			_ = post.AddLike(u.ID)
		}
		if f.rnd.Intn(5) == 0 {
			post.AddComment(models.Comment{
				ID:     uuid.NewString(),
				Text:   truncate(gofakeit.Sentence(8), 300),
				Name:   u.Name,
				Avatar: u.Avatar,
				User:   u.ID,
				Date:   post.Date.Add(time.Duration(f.rnd.Intn(72)) * time.Hour),
			})
		}
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// ClearAll deletes every seeded table, dependents first.
func (f *Factory) ClearAll() error {
	for _, model := range []any{&models.Post{}, &models.Profile{}, &models.User{}} {
		if err := f.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed runs a full seeding pass: users with profiles, then posts.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	f, err := NewFactory(db, opts)
	if err != nil {
		return err
	}
	if opts.ShouldClean {
		if err := f.ClearAll(); err != nil {
			return err
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for range opts.NumUsers {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := f.CreateProfile(u); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		users = append(users, u)
	}
	log.Printf("✓ %d users with profiles created", len(users))

	if len(users) == 0 {
		return nil
	}
	for range opts.NumPosts {
		author := users[f.rnd.Intn(len(users))]
		if _, err := f.CreatePost(author, users); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
	}
	log.Printf("✓ %d posts created", opts.NumPosts)
	return nil
}

func (f *Factory) pickSkills() models.JSONList[string] {
	n := 2 + f.rnd.Intn(4)
	idx := f.rnd.Perm(len(skillPool))[:n]
	skills := make(models.JSONList[string], 0, n)
	for _, i := range idx {
		skills = append(skills, skillPool[i])
	}
	return skills
}

func (f *Factory) pastDate() time.Time {
	back := time.Duration(f.rnd.Intn(f.opts.MaxDays*24)) * time.Hour
	return time.Now().Add(-back).UTC()
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "dev"
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
