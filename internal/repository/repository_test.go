package repository_test

import (
	"context"
	"testing"
	"time"

	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/internal/testutil"
	"clinic-admin-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRepository_PhoneUniquePerTenant(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewPatientRepo(db)
	ctxA, ctxB := testutil.Ctx(testutil.TenantA), testutil.Ctx(testutil.TenantB)

	require.NoError(t, repo.Create(ctxA, &models.Patient{FirstName: "A", LastName: "One", PhoneNumber: "0812345678"}))

	err := repo.Create(ctxA, &models.Patient{FirstName: "A", LastName: "Two", PhoneNumber: "0812345678"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	require.NoError(t, repo.Create(ctxB, &models.Patient{FirstName: "B", LastName: "One", PhoneNumber: "0812345678"}))
}

func TestPatientRepository_SoftDeleteReleasesPhone(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewPatientRepo(db)
	ctxA := testutil.Ctx(testutil.TenantA)

	p := testutil.CreatePatient(t, db, testutil.TenantA, "0899999999", nil)
	require.NoError(t, repo.SoftDelete(ctxA, p.ID))

	exists, err := repo.Exists(ctxA, p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	taken, err := repo.ExistsByPhone(ctxA, "0899999999")
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, repo.Create(ctxA, &models.Patient{FirstName: "New", LastName: "Holder", PhoneNumber: "0899999999"}))

	assert.ErrorIs(t, repo.SoftDelete(ctxA, p.ID), repository.ErrNotFound, "already deleted")
}

func TestPatientRepository_SoftDeleteOtherTenant(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewPatientRepo(db)

	p := testutil.CreatePatient(t, db, testutil.TenantB, "0811111111", nil)

	err := repo.SoftDelete(testutil.Ctx(testutil.TenantA), p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := repo.Exists(testutil.Ctx(testutil.TenantB), p.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPatientRepository_ListOrderAndFilter(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewPatientRepo(db)
	ctxA := testutil.Ctx(testutil.TenantA)

	first := testutil.CreatePatient(t, db, testutil.TenantA, "01", &testutil.Branch1)
	time.Sleep(5 * time.Millisecond)
	second := testutil.CreatePatient(t, db, testutil.TenantA, "02", &testutil.Branch2)
	testutil.CreatePatient(t, db, testutil.TenantB, "03", &testutil.BranchB)

	all, err := repo.List(ctxA, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	filtered, err := repo.List(ctxA, &testutil.Branch1)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, first.ID, filtered[0].ID)
}

func TestAppointmentRepository_SlotUnique(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewAppointmentRepo(db)
	ctxA := testutil.Ctx(testutil.TenantA)
	p := testutil.CreatePatient(t, db, testutil.TenantA, "0800000000", nil)
	start := models.NormalizeStartAt(time.Now().Add(24 * time.Hour))

	require.NoError(t, repo.Create(ctxA, &models.Appointment{BranchID: testutil.Branch1, PatientID: p.ID, StartAt: start}))

	exists, err := repo.ExistsSlot(ctxA, p.ID, testutil.Branch1, start)
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctxA, &models.Appointment{BranchID: testutil.Branch1, PatientID: p.ID, StartAt: start})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	require.NoError(t, repo.Create(ctxA, &models.Appointment{BranchID: testutil.Branch2, PatientID: p.ID, StartAt: start}))
	require.NoError(t, repo.Create(ctxA, &models.Appointment{BranchID: testutil.Branch1, PatientID: p.ID, StartAt: start.Add(time.Minute)}))

	exists, err = repo.ExistsSlot(testutil.Ctx(testutil.TenantB), p.ID, testutil.Branch1, start)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_TokenLookupIsUnscoped(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewUserRepo(db)

	user, err := repo.FindUserByTokenHash(context.Background(), utils.HashToken(testutil.TenantBAdminToken))
	require.NoError(t, err)
	assert.Equal(t, testutil.TenantB, user.TenantID)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = repo.FindUserByTokenHash(context.Background(), utils.HashToken("nope"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateWithBranchesAndReplace(t *testing.T) {
	db := testutil.NewSeededDB(t)
	users := repository.NewUserRepo(db)
	links := repository.NewUserBranchRepo(db)
	ctxA := testutil.Ctx(testutil.TenantA)

	user := &models.User{
		Email:        "new@a.test",
		FullName:     "New User",
		PasswordHash: "x",
		Role:         models.RoleUser,
		APITokenHash: utils.HashToken("new-token"),
	}
	require.NoError(t, users.CreateUser(ctxA, user, []uuid.UUID{testutil.Branch1, testutil.Branch1}))

	ids, err := links.GetUserBranches(ctxA, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{testutil.Branch1}, ids)

	require.NoError(t, links.ReplaceUserBranches(ctxA, user.ID, []uuid.UUID{testutil.Branch2}))
	ids, err = links.GetUserBranches(ctxA, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{testutil.Branch2}, ids)

	require.NoError(t, links.ReplaceUserBranches(ctxA, user.ID, nil))
	ids, err = links.GetUserBranches(ctxA, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUserRepository_EmailUniquePerTenant(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewUserRepo(db)

	dup := &models.User{Email: "admin@a.test", FullName: "Dup", PasswordHash: "x", Role: models.RoleUser, APITokenHash: utils.HashToken("dup")}
	err := repo.CreateUser(testutil.Ctx(testutil.TenantA), dup, nil)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	same := &models.User{Email: "admin@a.test", FullName: "Same", PasswordHash: "x", Role: models.RoleUser, APITokenHash: utils.HashToken("same")}
	require.NoError(t, repo.CreateUser(testutil.Ctx(testutil.TenantB), same, nil))
}

func TestUserRepository_UpdateRoleScoped(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewUserRepo(db)
	target := testutil.CreateUser(t, db, testutil.TenantB, "target@b.test", models.RoleViewer, "target-token")

	err := repo.UpdateRole(testutil.Ctx(testutil.TenantA), target.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.UpdateRole(testutil.Ctx(testutil.TenantB), target.ID, models.RoleUser))
	got, err := repo.GetUserByID(testutil.Ctx(testutil.TenantB), target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestBranchRepository_ScopedLookups(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewBranchRepo(db)
	ctxA := testutil.Ctx(testutil.TenantA)

	branches, err := repo.List(ctxA)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "Downtown Branch", branches[0].Name)

	found, err := repo.ExistingIDs(ctxA, []uuid.UUID{testutil.Branch1, testutil.BranchB})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{testutil.Branch1}, found)

	names, err := repo.NamesByIDs(ctxA, []uuid.UUID{testutil.Branch2, testutil.BranchB})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{testutil.Branch2: "Downtown Branch"}, names)
}

func TestAuditRepository_ScopedTrail(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewAuditRepo(db)

	require.NoError(t, repo.CreateAuditLog(testutil.Ctx(testutil.TenantA), nil, models.AuditUserCreate, "created"))

	logs, err := repo.ListAuditLogs(testutil.Ctx(testutil.TenantA), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, testutil.TenantA, logs[0].TenantID)

	logs, err = repo.ListAuditLogs(testutil.Ctx(testutil.TenantB), 10)
	require.NoError(t, err)
	assert.Empty(t, logs)

	err = repo.CreateAuditLog(context.Background(), nil, models.AuditUserCreate, "no tenant")
	assert.ErrorIs(t, err, tenant.ErrNoTenant)
}
