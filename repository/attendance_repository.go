package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Sistem-Absensi-RFID/config"
	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
)

type AttendanceRepository interface {
	// Insert fails with a DuplicateKeyError on field "date" when the employee already has a
	// record for that day.
	Insert(ctx context.Context, attendance *models.Attendance) error
	// UpdateCheckout sets check_out and status on the (employee, date) record and returns it
	// after the update. check_in is never touched.
	UpdateCheckout(ctx context.Context, employeeID primitive.ObjectID, date string, checkOut time.Time, status models.AttendanceStatus) (*models.Attendance, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID primitive.ObjectID, date string) (*models.Attendance, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Attendance, error)
	FindByOrganizationAndDate(ctx context.Context, orgID primitive.ObjectID, date string) ([]models.Attendance, error)
	CountByOrganizationAndDate(ctx context.Context, orgID primitive.ObjectID, date string) (int64, error)
	// FindByEmployeesInRange returns records with start <= date <= end (both "2006-01-02").
	FindByEmployeesInRange(ctx context.Context, employeeIDs []primitive.ObjectID, start, end string) ([]models.Attendance, error)
	DeleteByEmployees(ctx context.Context, employeeIDs []primitive.ObjectID) (int64, error)
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type attendanceRepository struct {
	attendanceCollection *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) AttendanceRepository {
	return &attendanceRepository{
		attendanceCollection: db.Collection(config.AttendanceCollection),
	}
}

var attendanceUniqueFields = map[string]string{
	config.IndexAttendanceDay: "date",
}

func (r *attendanceRepository) Insert(ctx context.Context, attendance *models.Attendance) error {
	now := time.Now()
	if attendance.ID.IsZero() {
		attendance.ID = primitive.NewObjectID()
	}
	attendance.CreatedAt = now
	attendance.UpdatedAt = now

	if _, err := r.attendanceCollection.InsertOne(ctx, attendance); err != nil {
		if dup := duplicateKey(err, attendanceUniqueFields); dup != nil {
			return dup
		}
		return apperror.System("gagal membuat absensi", err)
	}
	return nil
}

func (r *attendanceRepository) UpdateCheckout(ctx context.Context, employeeID primitive.ObjectID, date string, checkOut time.Time, status models.AttendanceStatus) (*models.Attendance, error) {
	filter := bson.M{"employee_id": employeeID, "date": date}
	update := bson.M{
		"$set": bson.M{
			"check_out":  checkOut,
			"status":     status,
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var attendance models.Attendance
	err := r.attendanceCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("attendance")
		}
		return nil, apperror.System("gagal update check-out absensi", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID primitive.ObjectID, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	filter := bson.M{"employee_id": employeeID, "date": date}
	err := r.attendanceCollection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("attendance")
		}
		return nil, apperror.System("gagal mencari absensi berdasarkan karyawan dan tanggal", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return r.find(ctx, bson.M{"employee_id": employeeID}, opts)
}

func (r *attendanceRepository) FindByOrganizationAndDate(ctx context.Context, orgID primitive.ObjectID, date string) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	return r.find(ctx, bson.M{"organization_id": orgID, "date": date}, opts)
}

func (r *attendanceRepository) CountByOrganizationAndDate(ctx context.Context, orgID primitive.ObjectID, date string) (int64, error) {
	n, err := r.attendanceCollection.CountDocuments(ctx, bson.M{"organization_id": orgID, "date": date})
	if err != nil {
		return 0, apperror.System("gagal menghitung absensi", err)
	}
	return n, nil
}

func (r *attendanceRepository) FindByEmployeesInRange(ctx context.Context, employeeIDs []primitive.ObjectID, start, end string) ([]models.Attendance, error) {
	if len(employeeIDs) == 0 {
		return []models.Attendance{}, nil
	}
	filter := bson.M{
		"employee_id": bson.M{"$in": employeeIDs},
		"date":        bson.M{"$gte": start, "$lte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *attendanceRepository) DeleteByEmployees(ctx context.Context, employeeIDs []primitive.ObjectID) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	res, err := r.attendanceCollection.DeleteMany(ctx, bson.M{"employee_id": bson.M{"$in": employeeIDs}})
	if err != nil {
		return 0, apperror.System("gagal menghapus absensi", err)
	}
	return res.DeletedCount, nil
}

func (r *attendanceRepository) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := r.attendanceCollection.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, apperror.System("gagal menghapus absensi organisasi", err)
	}
	return res.DeletedCount, nil
}

func (r *attendanceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Attendance, error) {
	cursor, err := r.attendanceCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.System("gagal mencari riwayat absensi", err)
	}
	defer cursor.Close(ctx)

	results := []models.Attendance{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, apperror.System("gagal decode riwayat absensi", err)
	}
	return results, nil
}
