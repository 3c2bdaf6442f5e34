package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/pulse/backend/internal/domain/shared"
)

// Tenant represents an agency account. All clients, platform connections and
// budgets in the system hang off a tenant.
type Tenant struct {
	shared.BaseAggregateRoot
	Name       string
	Slug       string
	LogoURL    string
	IsActive   bool
	ArchivedAt *time.Time
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewTenant creates a new active tenant
func NewTenant(name, slug string) (*Tenant, error) {
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if err := validateTenantSlug(slug); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		IsActive:          true,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Rename changes the tenant display name
func (t *Tenant) Rename(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantUpdatedEvent(t))
	return nil
}

// SetLogoURL updates the tenant logo
func (t *Tenant) SetLogoURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL cannot exceed 500 characters")
	}
	t.LogoURL = strings.TrimSpace(url)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Archive soft-deletes the tenant. Archived tenants keep their data but are
// excluded from normal listings and cannot be selected as the active tenant.
func (t *Tenant) Archive() error {
	if t.IsArchived() {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Tenant is already archived")
	}
	now := time.Now()
	t.ArchivedAt = &now
	t.IsActive = false
	t.UpdatedAt = now
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantArchivedEvent(t))
	return nil
}

// Restore reverses an archive
func (t *Tenant) Restore() error {
	if !t.IsArchived() {
		return shared.NewDomainError("NOT_ARCHIVED", "Tenant is not archived")
	}
	t.ArchivedAt = nil
	t.IsActive = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantRestoredEvent(t))
	return nil
}

// IsArchived reports whether the tenant has been archived
func (t *Tenant) IsArchived() bool {
	return t.ArchivedAt != nil
}

// Slugify derives a URL-safe slug from a display name
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}

func validateTenantSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug is required")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot exceed 100 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug may only contain lowercase letters, digits and hyphens")
	}
	return nil
}
