package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type note struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	TenantID  uuid.UUID `gorm:"type:char(36);not null;index"`
	Body      string
	IsDeleted bool `gorm:"not null;default:false"`
}

type label struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string
}

var (
	tenantA = uuid.MustParse("a0000000-0000-0000-0000-000000000001")
	tenantB = uuid.MustParse("a0000000-0000-0000-0000-000000000002")
)

func setupPluginDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Use(Plugin{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&note{}, &label{}))
	return db
}

func seedNote(t *testing.T, db *gorm.DB, tenantID uuid.UUID, body string) note {
	t.Helper()
	n := note{ID: uuid.New(), Body: body}
	require.NoError(t, db.WithContext(WithID(context.Background(), tenantID)).Create(&n).Error)
	return n
}

func TestPlugin_CreateStampsTenant(t *testing.T) {
	db := setupPluginDB(t)

	n := seedNote(t, db, tenantA, "hello")
	assert.Equal(t, tenantA, n.TenantID)

	var stored note
	require.NoError(t, db.WithContext(WithoutFilter(context.Background())).First(&stored, "id = ?", n.ID).Error)
	assert.Equal(t, tenantA, stored.TenantID)
}

func TestPlugin_QueriesSeeOnlyActiveTenant(t *testing.T) {
	db := setupPluginDB(t)
	seedNote(t, db, tenantA, "a1")
	seedNote(t, db, tenantA, "a2")
	other := seedNote(t, db, tenantB, "b1")

	ctxA := WithID(context.Background(), tenantA)

	var notes []note
	require.NoError(t, db.WithContext(ctxA).Find(&notes).Error)
	assert.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, tenantA, n.TenantID)
	}

	var count int64
	require.NoError(t, db.WithContext(ctxA).Model(&note{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	err := db.WithContext(ctxA).First(&note{}, "id = ?", other.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPlugin_SoftDeletedRowsHidden(t *testing.T) {
	db := setupPluginDB(t)
	n := seedNote(t, db, tenantA, "gone")
	ctxA := WithID(context.Background(), tenantA)

	require.NoError(t, db.WithContext(ctxA).Model(&note{}).Where("id = ?", n.ID).Update("is_deleted", true).Error)

	err := db.WithContext(ctxA).First(&note{}, "id = ?", n.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var raw note
	require.NoError(t, db.WithContext(WithoutFilter(context.Background())).First(&raw, "id = ?", n.ID).Error)
	assert.True(t, raw.IsDeleted)
}

func TestPlugin_UpdateAndDeleteAreScoped(t *testing.T) {
	db := setupPluginDB(t)
	a := seedNote(t, db, tenantA, "a")
	b := seedNote(t, db, tenantB, "b")
	ctxA := WithID(context.Background(), tenantA)

	res := db.WithContext(ctxA).Model(&note{}).Where("id = ?", b.ID).Update("body", "hijacked")
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected)

	res = db.WithContext(ctxA).Where("id = ?", b.ID).Delete(&note{})
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected)

	res = db.WithContext(ctxA).Model(&note{}).Where("id = ?", a.ID).Update("body", "edited")
	require.NoError(t, res.Error)
	assert.EqualValues(t, 1, res.RowsAffected)
}

func TestPlugin_FailsClosedWithoutTenant(t *testing.T) {
	db := setupPluginDB(t)
	seedNote(t, db, tenantA, "a")
	ctx := context.Background()

	err := db.WithContext(ctx).Find(&[]note{}).Error
	assert.ErrorIs(t, err, ErrNoTenant)

	err = db.WithContext(ctx).Create(&note{ID: uuid.New()}).Error
	assert.ErrorIs(t, err, ErrNoTenant)

	err = db.WithContext(WithoutFilter(ctx)).Create(&note{ID: uuid.New()}).Error
	assert.ErrorIs(t, err, ErrNoTenant, "system inserts must carry a tenant")

	require.NoError(t, db.WithContext(WithoutFilter(ctx)).Create(&note{ID: uuid.New(), TenantID: tenantB}).Error)
}

func TestPlugin_RejectsForeignTenantOnWrite(t *testing.T) {
	db := setupPluginDB(t)
	ctxA := WithID(context.Background(), tenantA)

	err := db.WithContext(ctxA).Create(&note{ID: uuid.New(), TenantID: tenantB}).Error
	assert.ErrorIs(t, err, ErrTenantMismatch)

	batch := []note{{ID: uuid.New()}, {ID: uuid.New(), TenantID: tenantB}}
	err = db.WithContext(ctxA).Create(&batch).Error
	assert.ErrorIs(t, err, ErrTenantMismatch)

	b := seedNote(t, db, tenantB, "b")
	b.Body = "overwrite"
	err = db.WithContext(ctxA).Save(&b).Error
	assert.ErrorIs(t, err, ErrTenantMismatch)
}

func TestPlugin_RejectsTenantRewriteOnUpdate(t *testing.T) {
	db := setupPluginDB(t)
	n := seedNote(t, db, tenantA, "mine")
	ctxA := WithID(context.Background(), tenantA)

	err := db.WithContext(ctxA).Model(&note{}).Where("id = ?", n.ID).Update("tenant_id", tenantB).Error
	assert.ErrorIs(t, err, ErrTenantMismatch)

	err = db.WithContext(ctxA).Model(&note{}).Where("id = ?", n.ID).
		Updates(map[string]interface{}{"tenant_id": tenantB.String(), "body": "moved"}).Error
	assert.ErrorIs(t, err, ErrTenantMismatch)

	err = db.WithContext(ctxA).Model(&note{}).Where("id = ?", n.ID).Updates(note{TenantID: tenantB, Body: "moved"}).Error
	assert.ErrorIs(t, err, ErrTenantMismatch)

	require.NoError(t, db.WithContext(ctxA).Model(&note{}).Where("id = ?", n.ID).
		Updates(map[string]interface{}{"tenant_id": tenantA, "body": "kept"}).Error)

	var stored note
	require.NoError(t, db.WithContext(WithoutFilter(context.Background())).First(&stored, "id = ?", n.ID).Error)
	assert.Equal(t, tenantA, stored.TenantID)
	assert.Equal(t, "kept", stored.Body)
}

func TestPlugin_IgnoresModelsWithoutTenant(t *testing.T) {
	db := setupPluginDB(t)

	require.NoError(t, db.Create(&label{ID: uuid.New(), Name: "shared"}).Error)

	var labels []label
	require.NoError(t, db.Find(&labels).Error)
	assert.Len(t, labels, 1)
}
