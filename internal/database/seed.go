package database

import (
	"context"
	"fmt"

	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Demo data identifiers
var (
	DemoTenantID   = uuid.MustParse("a0000000-0000-0000-0000-000000000001")
	DemoBranch1ID  = uuid.MustParse("b0000000-0000-0000-0000-000000000001")
	DemoBranch2ID  = uuid.MustParse("b0000000-0000-0000-0000-000000000002")
	demoPassword   = "password123"
	demoTenantName = "Demo Clinic"
)

type demoUser struct {
	email    string
	fullName string
	role     models.Role
	token    string
}

var demoUsers = []demoUser{
	{"admin@demo.clinic", "Admin User", models.RoleAdmin, "admin-token-00000001"},
	{"user@demo.clinic", "Normal User", models.RoleUser, "user-token-00000002"},
	{"viewer@demo.clinic", "Viewer User", models.RoleViewer, "viewer-token-00000003"},
}

// Seed creates the demo tenant, two branches and one user per role, every
// user linked to both branches. It does nothing when the tenant exists.
func Seed(ctx context.Context, db *gorm.DB) error {
	tenantRepo := repository.NewTenantRepo(db)
	exists, err := tenantRepo.Exists(ctx, DemoTenantID)
	if err != nil {
		return fmt.Errorf("check demo tenant: %w", err)
	}
	if exists {
		logger.FromContext(ctx).Info("Seed data already exists, skipping")
		return nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewTenantRepo(tx).Create(ctx, &models.Tenant{ID: DemoTenantID, Name: demoTenantName}); err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}

		scoped := tenant.WithID(ctx, DemoTenantID)
		branchRepo := repository.NewBranchRepo(tx)
		for _, b := range []models.Branch{
			{ID: DemoBranch1ID, Name: "Main Branch"},
			{ID: DemoBranch2ID, Name: "Downtown Branch"},
		} {
			if err := branchRepo.Create(scoped, &b); err != nil {
				return fmt.Errorf("create branch %s: %w", b.Name, err)
			}
		}

		hash, err := utils.HashPassword(demoPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		userRepo := repository.NewUserRepo(tx)
		branchIDs := []uuid.UUID{DemoBranch1ID, DemoBranch2ID}
		for _, u := range demoUsers {
			user := &models.User{
				Email:        u.email,
				FullName:     u.fullName,
				PasswordHash: hash,
				Role:         u.role,
				APITokenHash: utils.HashToken(u.token),
			}
			if err := userRepo.CreateUser(scoped, user, branchIDs); err != nil {
				return fmt.Errorf("create user %s: %w", u.email, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("Seeded demo tenant",
		zap.String("tenant", demoTenantName),
		zap.String("tenant_id", DemoTenantID.String()))
	for _, u := range demoUsers {
		log.Info("Seeded demo user",
			zap.String("role", string(u.role)),
			zap.String("email", u.email),
			zap.String("token", u.token))
	}
	return nil
}
