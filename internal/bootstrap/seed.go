package bootstrap

import (
	"log"

	"anoa.com/advisoryhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.StudentProfile{},
		&entity.TeacherProfile{},
		&entity.Advisory{},
	)
}

// Fixed ids so development tokens stay valid across reseeds.
var (
	SeedStudentAna    = uuid.MustParse("0190d5a3-0000-7000-8000-000000000001")
	SeedStudentCarlos = uuid.MustParse("0190d5a3-0000-7000-8000-000000000002")
	SeedStudentMaria  = uuid.MustParse("0190d5a3-0000-7000-8000-000000000003")
	SeedTeacherElena  = uuid.MustParse("0190d5a3-0000-7000-8000-000000000101")
	SeedTeacherCarlos = uuid.MustParse("0190d5a3-0000-7000-8000-000000000102")
	SeedTeacherMaria  = uuid.MustParse("0190d5a3-0000-7000-8000-000000000103")
	SeedTeacherJose   = uuid.MustParse("0190d5a3-0000-7000-8000-000000000104")
)

func strPtr(s string) *string {
	return &s
}

func SeedStudents() []entity.StudentProfile {
	return []entity.StudentProfile{
		{ID: SeedStudentAna, FullName: "Ana García", EnrollmentNumber: "A00001", Career: "Ingeniería en Sistemas", Semester: 5},
		{ID: SeedStudentCarlos, FullName: "Carlos Rodríguez", EnrollmentNumber: "A00002", Career: "Medicina", Semester: 3},
		{ID: SeedStudentMaria, FullName: "María López", EnrollmentNumber: "A00003", Career: "Derecho", Semester: 7},
	}
}

func SeedTeachers() []entity.TeacherProfile {
	return []entity.TeacherProfile{
		{
			ID:             SeedTeacherElena,
			FullName:       "Dr. Elena García",
			EmployeeNumber: "PROF001",
			Department:     "Ingeniería",
			Specialties:    datatypes.JSONSlice[string]{"Matemáticas", "Cálculo", "Álgebra"},
			AvailableHours: datatypes.JSONSlice[string]{"09:00-11:00", "14:00-16:00"},
			Phone:          strPtr("+52 555 123 4567"),
			Office:         strPtr("Edificio A, Oficina 201"),
		},
		{
			ID:             SeedTeacherCarlos,
			FullName:       "Dr. Carlos Rodríguez",
			EmployeeNumber: "PROF002",
			Department:     "Medicina",
			Specialties:    datatypes.JSONSlice[string]{"Anatomía", "Fisiología", "Patología"},
			AvailableHours: datatypes.JSONSlice[string]{"10:00-12:00", "15:00-17:00"},
			Phone:          strPtr("+52 555 234 5678"),
			Office:         strPtr("Edificio B, Oficina 305"),
		},
		{
			ID:             SeedTeacherMaria,
			FullName:       "Dra. María López",
			EmployeeNumber: "PROF003",
			Department:     "Derecho",
			Specialties:    datatypes.JSONSlice[string]{"Derecho Civil", "Derecho Penal", "Derecho Constitucional"},
			AvailableHours: datatypes.JSONSlice[string]{},
			Phone:          strPtr("+52 555 345 6789"),
			Office:         strPtr("Edificio C, Oficina 102"),
		},
		{
			ID:             SeedTeacherJose,
			FullName:       "Dr. José Martínez",
			EmployeeNumber: "PROF004",
			Department:     "Administración",
			Specialties:    datatypes.JSONSlice[string]{"Finanzas", "Marketing", "Recursos Humanos"},
			AvailableHours: datatypes.JSONSlice[string]{"08:00-10:00", "13:00-15:00"},
			Phone:          strPtr("+52 555 456 7890"),
			Office:         strPtr("Edificio D, Oficina 401"),
		},
	}
}

// SeedDirectory inserts the sample profiles that are not present yet.
func SeedDirectory(db *gorm.DB) error {
	for _, student := range SeedStudents() {
		var count int64
		if err := db.Model(&entity.StudentProfile{}).
			Where("id = ?", student.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&student).Error; err != nil {
				return err
			}
		}
	}

	for _, teacher := range SeedTeachers() {
		var count int64
		if err := db.Model(&entity.TeacherProfile{}).
			Where("id = ?", teacher.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&teacher).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Directory seeded")
	return nil
}
