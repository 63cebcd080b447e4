// Package service resolves bearer tokens into viewers and manages user roles
package service

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/modules/identitymodule/core/roles"
	"github.com/mantonx/lineup/internal/modules/identitymodule/core/tokens"
	"github.com/mantonx/lineup/internal/modules/identitymodule/models"
	"github.com/mantonx/lineup/internal/types"
	"gorm.io/gorm"
)

// IdentityService implements services.IdentityService and user administration
type IdentityService struct {
	users  *database.Repository[models.User, *models.User]
	tokens *tokens.Manager
	bus    events.EventBus
	logger hclog.Logger
}

// NewIdentityService creates the service. tm may be nil, in which case every
// bearer token is refused as unverifiable.
func NewIdentityService(db *gorm.DB, tm *tokens.Manager, bus events.EventBus, logger hclog.Logger) *IdentityService {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &IdentityService{
		users:  database.NewRepository[models.User, *models.User](db, "user"),
		tokens: tm,
		bus:    bus,
		logger: logger,
	}
}

// Migrate creates the users table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

// ResolveViewer verifies token and returns the stored user as a Viewer.
// Unknown subjects are provisioned with the token's role hint.
func (s *IdentityService) ResolveViewer(ctx context.Context, token string) (types.Viewer, error) {
	const op = "resolve_viewer"

	if strings.TrimSpace(token) == "" {
		return types.Guest(), nil
	}
	if s.tokens == nil {
		return types.Viewer{}, apperrors.Unavailable(op, "token verification")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("rejected token", "error", err)
		return types.Viewer{}, apperrors.Unauthorized(op, "invalid token")
	}

	user, err := s.users.Get(ctx, claims.Subject)
	if err == nil {
		return user.Viewer(), nil
	}
	if !apperrors.IsNotFound(err) {
		return types.Viewer{}, err
	}

	user = &models.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      roles.ProvisionRole(claims.Role),
		IsPremium: claims.Premium,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Another request may have provisioned the same subject
		existing, getErr := s.users.Get(ctx, claims.Subject)
		if getErr != nil {
			return types.Viewer{}, err
		}
		return existing.Viewer(), nil
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.EventCreated, events.EntityUser, user.ID))
	s.logger.Info("provisioned user", "id", user.ID, "role", user.Role)
	return user.Viewer(), nil
}

// IssueToken signs a token for subject
func (s *IdentityService) IssueToken(subject string, role types.Role, premium bool) (string, error) {
	if s.tokens == nil {
		return "", apperrors.Unavailable("issue_token", "token signing")
	}
	if role != "" && !role.Valid() {
		return "", apperrors.Validationf("issue_token", "role", "unknown role %q", role)
	}
	return s.tokens.Issue(subject, role, premium)
}

// GetUser returns one user
func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// ListUsers returns every known user ordered by id
func (s *IdentityService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx, func(q *gorm.DB) *gorm.DB { return q.Order("id") })
}

// Promote raises a user's role. An empty role means one step up.
func (s *IdentityService) Promote(ctx context.Context, actor types.Viewer, userID string, role types.Role) (*models.User, error) {
	return s.changeRole(ctx, roles.Promote, actor, userID, role)
}

// Demote lowers a user's role. An empty role means one step down. The last
// master admin cannot be demoted.
func (s *IdentityService) Demote(ctx context.Context, actor types.Viewer, userID string, role types.Role) (*models.User, error) {
	return s.changeRole(ctx, roles.Demote, actor, userID, role)
}

func (s *IdentityService) changeRole(ctx context.Context, dir roles.Direction, actor types.Viewer, userID string, next types.Role) (*models.User, error) {
	op := "promote"
	if dir == roles.Demote {
		op = "demote"
	}
	if !actor.Authenticated {
		return nil, apperrors.Unauthorized(op, "authentication required")
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if next == "" {
		next = roles.DefaultNext(dir, user.Role)
	}
	if err := roles.CheckChange(dir, actor.Role, user.Role, next); err != nil {
		return nil, err
	}

	if user.Role == types.RoleMasterAdmin {
		var count int64
		if err := s.users.DB().WithContext(ctx).Model(&models.User{}).
			Where("role = ?", types.RoleMasterAdmin).Count(&count).Error; err != nil {
			return nil, apperrors.Database(op, "user", userID, err)
		}
		if count <= 1 {
			return nil, apperrors.Validation(op, "role", "cannot demote the last master admin")
		}
	}

	previous := user.Role
	user.Role = next
	if err := s.users.Replace(ctx, userID, user); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.EventReplaced, events.EntityUser, userID))
	s.logger.Info("role changed", "user", userID, "from", previous, "to", next, "by", actor.UserID)
	return user, nil
}

// SetPremium records a user's subscription state
func (s *IdentityService) SetPremium(ctx context.Context, userID string, premium bool) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsPremium = premium
	if err := s.users.Replace(ctx, userID, user); err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.NewEntityEvent(events.EventReplaced, events.EntityUser, userID))
	return user, nil
}
