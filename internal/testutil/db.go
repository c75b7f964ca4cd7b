// Package testutil provides an in-memory database with the production schema
// and a fixed two-tenant fixture set for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"clinic-admin-api/internal/database"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Fixture identifiers. Branch1 and Branch2 belong to TenantA, BranchB to
// TenantB.
var (
	TenantA = uuid.MustParse("a0000000-0000-0000-0000-000000000001")
	TenantB = uuid.MustParse("a0000000-0000-0000-0000-000000000002")
	Branch1 = uuid.MustParse("b0000000-0000-0000-0000-000000000001")
	Branch2 = uuid.MustParse("b0000000-0000-0000-0000-000000000002")
	BranchB = uuid.MustParse("b0000000-0000-0000-0000-000000000003")
)

// Fixture bearer tokens
const (
	AdminToken        = "test-admin-token"
	UserToken         = "test-user-token"
	ViewerToken       = "test-viewer-token"
	TenantBAdminToken = "test-tenantb-admin-token"
)

// NewDB opens a private in-memory SQLite database with the tenant plugin
// installed and the schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// NewSeededDB is NewDB plus SeedFixtures.
func NewSeededDB(t testing.TB) *gorm.DB {
	t.Helper()
	db := NewDB(t)
	SeedFixtures(t, db)
	return db
}

// SeedFixtures creates both tenants, their branches and one user per fixture
// token.
func SeedFixtures(t testing.TB, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	for _, tn := range []models.Tenant{
		{ID: TenantA, Name: "Tenant A"},
		{ID: TenantB, Name: "Tenant B"},
	} {
		require.NoError(t, db.WithContext(ctx).Create(&tn).Error)
	}

	ctxA, ctxB := Ctx(TenantA), Ctx(TenantB)
	require.NoError(t, db.WithContext(ctxA).Create(&[]models.Branch{
		{ID: Branch1, Name: "Main Branch"},
		{ID: Branch2, Name: "Downtown Branch"},
	}).Error)
	require.NoError(t, db.WithContext(ctxB).Create(&models.Branch{ID: BranchB, Name: "Other Clinic"}).Error)

	CreateUser(t, db, TenantA, "admin@a.test", models.RoleAdmin, AdminToken)
	CreateUser(t, db, TenantA, "user@a.test", models.RoleUser, UserToken)
	CreateUser(t, db, TenantA, "viewer@a.test", models.RoleViewer, ViewerToken)
	CreateUser(t, db, TenantB, "admin@b.test", models.RoleAdmin, TenantBAdminToken)
}

// CreateUser inserts a user of tenantID authenticated by token.
func CreateUser(t testing.TB, db *gorm.DB, tenantID uuid.UUID, email string, role models.Role, token string) models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		FullName:     email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		APITokenHash: utils.HashToken(token),
	}
	require.NoError(t, db.WithContext(Ctx(tenantID)).Create(&user).Error)
	return user
}

// CreatePatient inserts a live patient of tenantID.
func CreatePatient(t testing.TB, db *gorm.DB, tenantID uuid.UUID, phone string, branchID *uuid.UUID) models.Patient {
	t.Helper()
	p := models.Patient{
		FirstName:       "Test",
		LastName:        "Patient",
		PhoneNumber:     phone,
		PrimaryBranchID: branchID,
	}
	require.NoError(t, db.WithContext(Ctx(tenantID)).Create(&p).Error)
	return p
}

// Ctx returns a background context scoped to tenantID.
func Ctx(tenantID uuid.UUID) context.Context {
	return tenant.WithID(context.Background(), tenantID)
}
