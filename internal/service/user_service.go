package service

import (
	"context"
	"errors"
	"fmt"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/validation"
	"clinic-admin-api/pkg/utils"

	"github.com/google/uuid"
)

type UserService struct {
	users        UserStore
	userBranches UserBranchStore
	branches     BranchStore
	audit        AuditStore
	validator    *validation.Validator
}

func NewUserService(
	users UserStore,
	userBranches UserBranchStore,
	branches BranchStore,
	audit AuditStore,
	validator *validation.Validator,
) *UserService {
	return &UserService{
		users:        users,
		userBranches: userBranches,
		branches:     branches,
		audit:        audit,
		validator:    validator,
	}
}

// Create adds a user to the active tenant and issues their API token. The
// token is only ever returned here.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.UserResponse, error) {
	if _, err := activeTenant(ctx); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}
	role, _ := models.RoleFromCode(*req.Role)

	branchIDs := dedupe(req.BranchIDs)
	if err := s.ensureBranchesExist(ctx, branchIDs); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperror.ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := utils.GenerateAPIToken()
	if err != nil {
		return nil, fmt.Errorf("generate api token: %w", err)
	}

	user := models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		APITokenHash: utils.HashToken(token),
	}
	if err := s.users.CreateUser(ctx, &user, branchIDs); err != nil {
		return nil, asConflict(err, apperror.ErrDuplicateEmail, "create user")
	}

	recordAudit(ctx, s.audit, models.AuditUserCreate,
		fmt.Sprintf("Created user %s (%s) with role %s", user.Email, user.ID, user.Role))

	resp := models.NewUserResponse(user, branchIDs)
	resp.APIToken = &token
	return &resp, nil
}

// List returns the tenant's users ordered by email
func (s *UserService) List(ctx context.Context) ([]models.UserResponse, error) {
	if _, err := activeTenant(ctx); err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	byUser, err := s.userBranches.GetBranchesByUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list user branches: %w", err)
	}

	result := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, models.NewUserResponse(u, byUser[u.ID]))
	}
	return result, nil
}

// AssignRole sets a user's role. Assigning the current role is a no-op.
func (s *UserService) AssignRole(ctx context.Context, userID uuid.UUID, req models.AssignRoleRequest) (*models.UserResponse, error) {
	if _, err := activeTenant(ctx); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}
	role, _ := models.RoleFromCode(*req.Role)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != role {
		if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("User")
			}
			return nil, fmt.Errorf("update role: %w", err)
		}
		recordAudit(ctx, s.audit, models.AuditUserRoleAssign,
			fmt.Sprintf("Changed role of user %s from %s to %s", user.ID, user.Role, role))
		user.Role = role
	}

	branchIDs, err := s.userBranches.GetUserBranches(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get user branches: %w", err)
	}

	resp := models.NewUserResponse(*user, branchIDs)
	return &resp, nil
}

// AssociateBranches replaces a user's branch set with the requested one
func (s *UserService) AssociateBranches(ctx context.Context, userID uuid.UUID, req models.AssociateBranchesRequest) (*models.UserResponse, error) {
	if _, err := activeTenant(ctx); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	branchIDs := dedupe(req.BranchIDs)
	if err := s.ensureBranchesExist(ctx, branchIDs); err != nil {
		return nil, err
	}

	if err := s.userBranches.ReplaceUserBranches(ctx, user.ID, branchIDs); err != nil {
		return nil, fmt.Errorf("replace user branches: %w", err)
	}
	recordAudit(ctx, s.audit, models.AuditUserBranchesSet,
		fmt.Sprintf("Set %d branches for user %s", len(branchIDs), user.ID))

	resp := models.NewUserResponse(*user, branchIDs)
	return &resp, nil
}

func (s *UserService) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ensureBranchesExist rejects ids that are not branches of the tenant,
// including other tenants' branches.
func (s *UserService) ensureBranchesExist(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.branches.ExistingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check branches: %w", err)
	}
	if len(found) != len(ids) {
		return apperror.FieldError("branchIds", "One or more branches do not exist")
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
