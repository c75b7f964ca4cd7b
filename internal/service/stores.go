package service

import (
	"context"
	"time"

	"clinic-admin-api/internal/events"
	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
)

// The store interfaces below are satisfied by the repository package. Every
// call is scoped to the tenant carried by ctx.

type PatientStore interface {
	Create(ctx context.Context, patient *models.Patient) error
	List(ctx context.Context, branchID *uuid.UUID) ([]models.Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type BranchStore interface {
	List(ctx context.Context) ([]models.Branch, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	ExistsSlot(ctx context.Context, patientID, branchID uuid.UUID, startAt time.Time) (bool, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User, branchIDs []uuid.UUID) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

type UserBranchStore interface {
	ReplaceUserBranches(ctx context.Context, userID uuid.UUID, branchIDs []uuid.UUID) error
	GetUserBranches(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetBranchesByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, userID *uuid.UUID, action string, details string) error
}

// Notifier accepts domain events for asynchronous delivery. Notify must not
// block.
type Notifier interface {
	Notify(e events.Event)
}
