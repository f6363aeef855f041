package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"Sistem-Absensi-RFID/config"
	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)
	FindByEmail(ctx context.Context, email string) (*models.Organization, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type organizationRepository struct {
	collection *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) OrganizationRepository {
	return &organizationRepository{
		collection: db.Collection(config.OrganizationCollection),
	}
}

var organizationUniqueFields = map[string]string{
	config.IndexOrganizationEmail: "email",
}

func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	now := time.Now()
	if org.ID.IsZero() {
		org.ID = primitive.NewObjectID()
	}
	org.CreatedAt = now
	org.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, org); err != nil {
		if dup := duplicateKey(err, organizationUniqueFields); dup != nil {
			return dup
		}
		return apperror.System("gagal membuat organisasi", err)
	}
	return nil
}

func (r *organizationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *organizationRepository) FindByEmail(ctx context.Context, email string) (*models.Organization, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *organizationRepository) findOne(ctx context.Context, filter bson.M) (*models.Organization, error) {
	var org models.Organization
	err := r.collection.FindOne(ctx, filter).Decode(&org)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("organization")
		}
		return nil, apperror.System("gagal menemukan organisasi", err)
	}
	return &org, nil
}

func (r *organizationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.System("gagal menghapus organisasi", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("organization")
	}
	return nil
}
