package tenant

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	tenantFieldName     = "TenantID"
	softDeleteFieldName = "IsDeleted"
)

// Plugin scopes gorm statements to the tenant carried by the statement
// context. Any model with a TenantID field is tenant-owned: reads, updates and
// deletes get a tenant_id predicate, inserts get the tenant stamped in. Models
// with an IsDeleted field additionally get is_deleted = false on every read,
// update and delete.
//
// Register it once per connection with db.Use(tenant.Plugin{}).
type Plugin struct{}

func (Plugin) Name() string { return "tenant" }

func (Plugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("tenant:query", scopeStatement); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("tenant:row", scopeStatement); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenant:update", scopeUpdate); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("tenant:delete", scopeStatement); err != nil {
		return err
	}
	return cb.Create().Before("gorm:create").Register("tenant:create", stampCreate)
}

func tenantField(db *gorm.DB) *schema.Field {
	if db.Error != nil || db.Statement.Schema == nil {
		return nil
	}
	f := db.Statement.Schema.LookUpField(tenantFieldName)
	if f == nil || f.DBName == "" {
		return nil
	}
	return f
}

func scopeStatement(db *gorm.DB) {
	field := tenantField(db)
	if field == nil {
		return
	}

	ctx := db.Statement.Context
	if IsUnfiltered(ctx) {
		return
	}

	id, ok := FromContext(ctx)
	if !ok {
		_ = db.AddError(fmt.Errorf("%s: %w", db.Statement.Table, ErrNoTenant))
		return
	}

	exprs := []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName}, Value: id},
	}
	if del := db.Statement.Schema.LookUpField(softDeleteFieldName); del != nil && del.DBName != "" {
		exprs = append(exprs, clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: del.DBName}, Value: false})
	}
	db.Statement.AddClause(clause.Where{Exprs: exprs})
}

func scopeUpdate(db *gorm.DB) {
	field := tenantField(db)
	if field == nil {
		return
	}
	if id, ok := FromContext(db.Statement.Context); ok {
		reconcileRows(db, field, id)
		checkAssignments(db, field, id)
	}
	scopeStatement(db)
}

// checkAssignments fails an update whose SET values would move rows to a
// tenant other than id, whether given as a column map or a struct.
func checkAssignments(db *gorm.DB, field *schema.Field, id uuid.UUID) {
	switch dest := db.Statement.Dest.(type) {
	case map[string]interface{}:
		for column, value := range dest {
			if (column == field.DBName || column == field.Name) && !isTenant(value, id) {
				_ = db.AddError(fmt.Errorf("%s: %w", db.Statement.Table, ErrTenantMismatch))
				return
			}
		}
	default:
		rv := reflect.Indirect(reflect.ValueOf(dest))
		if rv.Kind() != reflect.Struct || rv.Type() != db.Statement.Schema.ModelType {
			return
		}
		if value, zero := field.ValueOf(db.Statement.Context, rv); !zero && !isTenant(value, id) {
			_ = db.AddError(fmt.Errorf("%s: %w", db.Statement.Table, ErrTenantMismatch))
		}
	}
}

func isTenant(value interface{}, id uuid.UUID) bool {
	switch v := value.(type) {
	case uuid.UUID:
		return v == id
	case *uuid.UUID:
		return v != nil && *v == id
	case string:
		parsed, err := uuid.Parse(v)
		return err == nil && parsed == id
	default:
		return false
	}
}

func stampCreate(db *gorm.DB) {
	field := tenantField(db)
	if field == nil {
		return
	}

	ctx := db.Statement.Context
	id, ok := FromContext(ctx)
	if ok {
		reconcileRows(db, field, id)
		return
	}
	if !IsUnfiltered(ctx) {
		_ = db.AddError(fmt.Errorf("%s: %w", db.Statement.Table, ErrNoTenant))
		return
	}

	// System inserts must name their tenant explicitly.
	eachRow(db.Statement.ReflectValue, func(row reflect.Value) {
		if _, zero := field.ValueOf(ctx, row); zero {
			_ = db.AddError(fmt.Errorf("%s: %w", db.Statement.Table, ErrNoTenant))
		}
	})
}

// reconcileRows stamps id into rows with an empty tenant and fails the
// statement for rows that name another tenant.
func reconcileRows(db *gorm.DB, field *schema.Field, id uuid.UUID) {
	ctx := db.Statement.Context
	eachRow(db.Statement.ReflectValue, func(row reflect.Value) {
		current, zero := field.ValueOf(ctx, row)
		if zero {
			if row.CanAddr() {
				if err := field.Set(ctx, row, id); err != nil {
					_ = db.AddError(err)
				}
			}
			return
		}
		if rowID, ok := current.(uuid.UUID); !ok || rowID != id {
			_ = db.AddError(fmt.Errorf("%s: %w", db.Statement.Table, ErrTenantMismatch))
		}
	})
}

func eachRow(rv reflect.Value, fn func(reflect.Value)) {
	rv = reflect.Indirect(rv)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if row := reflect.Indirect(rv.Index(i)); row.Kind() == reflect.Struct {
				fn(row)
			}
		}
	case reflect.Struct:
		fn(rv)
	}
}
