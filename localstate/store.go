package localstate

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/piru-app/admin-realtime/utils"
)

// DeviceSetting es un par clave/valor persistido en el dispositivo,
// el reemplazo del localStorage del shell web anterior.
type DeviceSetting struct {
	Clave string `gorm:"primaryKey;column:clave"`
	Valor string `gorm:"column:valor"`
}

func (DeviceSetting) TableName() string { return "device_settings" }

const claveImpresora = "impresora_seleccionada"

// Tablas que dejaban versiones anteriores del panel y que ya no se
// usan: las notificaciones ahora son durables en el servidor.
var legacyTables = []string{"notificaciones_cache", "admin_notifications"}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate prepara el esquema y elimina el estado heredado. Es
// idempotente: una segunda corrida no encuentra nada que borrar.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&DeviceSetting{}); err != nil {
		return err
	}
	m := db.Migrator()
	for _, tabla := range legacyTables {
		if !m.HasTable(tabla) {
			continue
		}
		if err := m.DropTable(tabla); err != nil {
			return err
		}
		utils.InfoLogger.Printf("localstate: tabla heredada %s eliminada", tabla)
	}
	return nil
}

// SelectedPrinter devuelve el nombre de la impresora elegida, o ""
// si nunca se eligió una.
func (s *Store) SelectedPrinter() (string, error) {
	var setting DeviceSetting
	err := s.db.First(&setting, "clave = ?", claveImpresora).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Valor, nil
}

func (s *Store) SetSelectedPrinter(nombre string) error {
	setting := DeviceSetting{Clave: claveImpresora, Valor: nombre}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor"}),
	}).Create(&setting).Error
}
