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

type EmployeeRepository interface {
	Create(ctx context.Context, emp *models.Employee) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	// FindActiveByRFID expects an already normalized tag.
	FindActiveByRFID(ctx context.Context, tag string) (*models.Employee, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.Employee, error)
	PageByOrganization(ctx context.Context, orgID primitive.ObjectID, page, limit int64) ([]models.Employee, int64, error)
	CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type employeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) EmployeeRepository {
	return &employeeRepository{
		collection: db.Collection(config.EmployeeCollection),
	}
}

var employeeUniqueFields = map[string]string{
	config.IndexEmployeeEmail: "email",
	config.IndexEmployeeCode:  "code",
	config.IndexEmployeeRFID:  "rfid",
}

func (r *employeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	now := time.Now()
	if emp.ID.IsZero() {
		emp.ID = primitive.NewObjectID()
	}
	if emp.DateJoined.IsZero() {
		emp.DateJoined = now
	}
	emp.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, emp); err != nil {
		if dup := duplicateKey(err, employeeUniqueFields); dup != nil {
			return dup
		}
		return apperror.System("gagal membuat karyawan", err)
	}
	return nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *employeeRepository) FindActiveByRFID(ctx context.Context, tag string) (*models.Employee, error) {
	return r.findOne(ctx, bson.M{"rfid": tag, "is_active": true})
}

func (r *employeeRepository) findOne(ctx context.Context, filter bson.M) (*models.Employee, error) {
	var emp models.Employee
	err := r.collection.FindOne(ctx, filter).Decode(&emp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("employee")
		}
		return nil, apperror.System("gagal menemukan karyawan", err)
	}
	return &emp, nil
}

func (r *employeeRepository) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, apperror.System("gagal menemukan karyawan", err)
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, apperror.System("gagal mendecode karyawan", err)
	}
	return employees, nil
}

func (r *employeeRepository) PageByOrganization(ctx context.Context, orgID primitive.ObjectID, page, limit int64) ([]models.Employee, int64, error) {
	filter := bson.M{"organization_id": orgID}

	findOptions := options.Find()
	findOptions.SetSkip((page - 1) * limit)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, apperror.System("gagal menemukan karyawan", err)
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, 0, apperror.System("gagal mendecode karyawan", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperror.System("gagal menghitung karyawan", err)
	}
	return employees, total, nil
}

func (r *employeeRepository) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, apperror.System("gagal menghitung karyawan", err)
	}
	return n, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.System("gagal menghapus karyawan", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("employee")
	}
	return nil
}

func (r *employeeRepository) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, apperror.System("gagal menghapus karyawan organisasi", err)
	}
	return res.DeletedCount, nil
}
