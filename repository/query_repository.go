package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Sistem-Absensi-RFID/config"
	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
)

type QueryRepository interface {
	Create(ctx context.Context, q *models.Query) error
	// PagePublic returns public queries, newest first, with the total public count.
	PagePublic(ctx context.Context, page, limit int64) ([]models.Query, int64, error)
	CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type queryRepository struct {
	collection *mongo.Collection
}

func NewQueryRepository(db *mongo.Database) QueryRepository {
	return &queryRepository{
		collection: db.Collection(config.QueryCollection),
	}
}

func (r *queryRepository) Create(ctx context.Context, q *models.Query) error {
	now := time.Now()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	q.CreatedAt = now
	q.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, q); err != nil {
		return apperror.System("gagal menyimpan query", err)
	}
	return nil
}

func (r *queryRepository) PagePublic(ctx context.Context, page, limit int64) ([]models.Query, int64, error) {
	filter := bson.M{"visibility": models.QueryPublic}

	findOptions := options.Find()
	findOptions.SetSkip((page - 1) * limit)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, apperror.System("gagal mengambil query publik", err)
	}
	defer cursor.Close(ctx)

	queries := []models.Query{}
	if err = cursor.All(ctx, &queries); err != nil {
		return nil, 0, apperror.System("gagal mendecode query", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperror.System("gagal menghitung query", err)
	}
	return queries, total, nil
}

func (r *queryRepository) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, apperror.System("gagal menghitung query", err)
	}
	return n, nil
}

func (r *queryRepository) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, apperror.System("gagal menghapus query organisasi", err)
	}
	return res.DeletedCount, nil
}
