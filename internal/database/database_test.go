package database_test

import (
	"context"
	"testing"

	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/database"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/internal/testutil"
	"clinic-admin-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.Migrate(context.Background(), db))
	assert.True(t, db.Migrator().HasIndex(&models.Patient{}, "ux_patients_tenant_phone"))
}

func TestSeed_CreatesDemoTenantOnce(t *testing.T) {
	utils.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { utils.BcryptCost = 12 })

	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, db))
	require.NoError(t, database.Seed(ctx, db))

	scoped := tenant.WithID(ctx, database.DemoTenantID)
	users, err := repository.NewUserRepo(db).ListUsers(scoped)
	require.NoError(t, err)
	require.Len(t, users, 3)

	branches, err := repository.NewBranchRepo(db).List(scoped)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	admin, err := repository.NewUserRepo(db).FindUserByTokenHash(ctx, utils.HashToken("admin-token-00000001"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, database.DemoTenantID, admin.TenantID)
	assert.True(t, utils.ComparePassword(admin.PasswordHash, "password123"))

	links, err := repository.NewUserBranchRepo(db).GetUserBranches(scoped, admin.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{database.DemoBranch1ID, database.DemoBranch2ID}, links)
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}

	_, err := database.Connect(cfg)
	assert.ErrorContains(t, err, "unsupported database driver")
}

