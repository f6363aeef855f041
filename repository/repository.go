package repository

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"Sistem-Absensi-RFID/pkg/apperror"
)

// Repository groups the collections behind the directory, the ledger and support queries.
type Repository struct {
	Organization OrganizationRepository
	Employee     EmployeeRepository
	Attendance   AttendanceRepository
	Query        QueryRepository
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		Organization: NewOrganizationRepository(db),
		Employee:     NewEmployeeRepository(db),
		Attendance:   NewAttendanceRepository(db),
		Query:        NewQueryRepository(db),
	}
}

// duplicateKey turns a mongo duplicate-key error into apperror.DuplicateKeyError, naming the
// field through the unique index that rejected the write. It returns nil for any other error.
func duplicateKey(err error, fieldsByIndex map[string]string) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	for index, field := range fieldsByIndex {
		if strings.Contains(msg, index) {
			return apperror.Duplicate(field)
		}
	}
	return apperror.Duplicate("")
}
