package service

import (
	"testing"
	"time"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/cache"
	"clinic-admin-api/internal/events"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/testutil"
	"clinic-admin-api/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type appointmentFixture struct {
	db       *gorm.DB
	svc      *AppointmentService
	cache    *spyCache
	notifier *recordingNotifier
	patient  models.Patient
	other    models.Patient
}

func newAppointmentFixture(t *testing.T, appointments AppointmentStore) appointmentFixture {
	t.Helper()
	db := testutil.NewSeededDB(t)
	if appointments == nil {
		appointments = repository.NewAppointmentRepo(db)
	} else if blind, ok := appointments.(blindAppointments); ok {
		blind.AppointmentRepository = repository.NewAppointmentRepo(db)
		appointments = blind
	}

	patients := repository.NewPatientRepo(db)
	c := newSpyCache()
	n := &recordingNotifier{}
	guard := NewGuard(patients, appointments)

	return appointmentFixture{
		db:       db,
		svc:      NewAppointmentService(appointments, patients, repository.NewBranchRepo(db), guard, c, n, validation.New()),
		cache:    c,
		notifier: n,
		patient:  testutil.CreatePatient(t, db, testutil.TenantA, "0811111111", &testutil.Branch1),
		other:    testutil.CreatePatient(t, db, testutil.TenantA, "0822222222", nil),
	}
}

func bookingReq(patientID, branchID uuid.UUID, startAt time.Time) models.CreateAppointmentRequest {
	return models.CreateAppointmentRequest{PatientID: patientID, BranchID: branchID, StartAt: startAt}
}

func TestAppointmentService_Create(t *testing.T) {
	f := newAppointmentFixture(t, nil)
	ctxA := testutil.Ctx(testutil.TenantA)
	start := time.Now().Add(48 * time.Hour)

	resp, err := f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start))
	require.NoError(t, err)

	assert.Equal(t, f.patient.ID, resp.PatientID)
	assert.Equal(t, testutil.Branch1, resp.BranchID)
	assert.Equal(t, models.NormalizeStartAt(start), resp.StartAt)
	assert.Equal(t, time.UTC, resp.StartAt.Location())

	assert.Equal(t, []string{cache.PatientPrefix(testutil.TenantA)}, f.cache.invalidations)

	require.Len(t, f.notifier.events, 1)
	evt, ok := f.notifier.events[0].(events.AppointmentCreated)
	require.True(t, ok)
	assert.Equal(t, resp.ID, evt.ID)
	assert.Equal(t, testutil.TenantA, evt.TenantID)
	assert.Equal(t, events.AppointmentCreatedName, evt.Name)
}

func TestAppointmentService_DuplicateBooking(t *testing.T) {
	f := newAppointmentFixture(t, nil)
	ctxA := testutil.Ctx(testutil.TenantA)
	start := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start))
	require.NoError(t, err)

	_, err = f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start))
	assert.ErrorIs(t, err, apperror.ErrDuplicateBooking)

	bangkok := time.FixedZone("ICT", 7*3600)
	_, err = f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start.In(bangkok)))
	assert.ErrorIs(t, err, apperror.ErrDuplicateBooking, "same instant in another zone")

	_, err = f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch2, start))
	assert.NoError(t, err, "different branch")

	_, err = f.svc.Create(ctxA, bookingReq(f.other.ID, testutil.Branch1, start))
	assert.NoError(t, err, "different patient")

	_, err = f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start.Add(time.Second)))
	assert.NoError(t, err, "different start")

	assert.Len(t, f.notifier.events, 4, "no event for rejected bookings")
}

func TestAppointmentService_DuplicateCaughtByConstraint(t *testing.T) {
	f := newAppointmentFixture(t, blindAppointments{})
	ctxA := testutil.Ctx(testutil.TenantA)
	start := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start))
	require.NoError(t, err)

	_, err = f.svc.Create(ctxA, bookingReq(f.patient.ID, testutil.Branch1, start))
	assert.ErrorIs(t, err, apperror.ErrDuplicateBooking)
	assert.Len(t, f.notifier.events, 1)
}

func TestAppointmentService_ReferencesMustBelongToTenant(t *testing.T) {
	f := newAppointmentFixture(t, nil)
	foreign := testutil.CreatePatient(t, f.db, testutil.TenantB, "0833333333", nil)

	_, err := f.svc.Create(testutil.Ctx(testutil.TenantA), bookingReq(foreign.ID, testutil.BranchB, time.Now().Add(time.Hour)))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "branchId")
	assert.Contains(t, appErr.Details, "patientId")
	assert.Empty(t, f.notifier.events)
}

func TestAppointmentService_PastStartRejected(t *testing.T) {
	f := newAppointmentFixture(t, nil)

	_, err := f.svc.Create(testutil.Ctx(testutil.TenantA), bookingReq(f.patient.ID, testutil.Branch1, time.Now().Add(-time.Minute)))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Start time must be in the future"}, appErr.Details["startAt"])
	assert.Empty(t, f.cache.invalidations)
}
