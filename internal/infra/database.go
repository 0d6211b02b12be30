package infra

import (
	"fmt"

	"gestion/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and sizes the pool.
// Schema creation is a separate step (Migrar) so tools like cmd/genhash never
// touch DDL.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	return db, nil
}

// Migrar runs AutoMigrate for every table and then applies the idempotent
// patches GORM cannot express: CHECK constraints and the functional index on
// LOWER(email).
func Migrar(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Permiso{},
		&model.ItemInventario{},
		&model.Venta{},
		&model.Cobranza{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

type schemaPatch struct{ descr, sql string }

// checkPatch adds a named CHECK constraint only when it does not exist yet.
func checkPatch(tabla, nombre, expr string) schemaPatch {
	return schemaPatch{
		descr: nombre,
		sql: fmt.Sprintf(`
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[2]s') THEN
    ALTER TABLE %[1]s ADD CONSTRAINT %[2]s CHECK (%[3]s);
  END IF;
END $$`, tabla, nombre, expr),
	}
}

// applySchemaPatches runs idempotent DDL statements. Re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []schemaPatch{
		checkPatch("usuarios", "chk_usuarios_rol", "rol IN ('admin','user')"),
		checkPatch("items_inventario", "chk_items_precio", "precio >= 0"),
		checkPatch("items_inventario", "chk_items_stock", "stock >= 0"),
		checkPatch("ventas", "chk_ventas_cantidad", "cantidad >= 1"),
		checkPatch("ventas", "chk_ventas_total", "total >= 0"),
		checkPatch("ventas", "chk_ventas_estado", "estado IN ('pendiente','pagada','cancelada')"),
		checkPatch("cobranzas", "chk_cobranzas_monto", "monto >= 0"),
		checkPatch("cobranzas", "chk_cobranzas_estado", "estado IN ('pendiente','pagada','vencida')"),
		{"items_activo_default", `ALTER TABLE items_inventario ALTER COLUMN activo SET DEFAULT true`},
		// Login looks users up case-insensitively.
		{"idx_usuarios_email_lower", `CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email_lower ON usuarios (LOWER(email))`},
		// Dashboard "next due" scan.
		{"idx_cobranzas_pendientes", `CREATE INDEX IF NOT EXISTS idx_cobranzas_pendientes
		    ON cobranzas (fecha_vencimiento) WHERE estado = 'pendiente'`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
