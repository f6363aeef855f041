package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var OrganizationCollection string = "organizations"
var EmployeeCollection string = "employees"
var AttendanceCollection string = "attendances"
var QueryCollection string = "queries"

// Unique index names. The repository maps duplicate-key errors back to fields through them.
const (
	IndexOrganizationEmail = "organizations_email_unique"
	IndexEmployeeEmail     = "employees_email_unique"
	IndexEmployeeCode      = "employees_code_unique"
	IndexEmployeeRFID      = "employees_rfid_unique"
	IndexAttendanceDay     = "attendances_employee_date_unique"
)

func MongoConnect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGOSTRING belum di setting")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// InitDatabase creates the unique indexes the directory and the ledger rely on.
func InitDatabase(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		OrganizationCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName(IndexOrganizationEmail).SetUnique(true),
			},
		},
		EmployeeCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName(IndexEmployeeEmail).SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetName(IndexEmployeeCode).SetUnique(true),
			},
			{
				// only documents that carry a tag take part in uniqueness
				Keys: bson.D{{Key: "rfid", Value: 1}},
				Options: options.Index().SetName(IndexEmployeeRFID).SetUnique(true).
					SetPartialFilterExpression(bson.M{"rfid": bson.M{"$type": "string"}}),
			},
			{
				Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "name", Value: 1}},
			},
		},
		AttendanceCollection: {
			{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetName(IndexAttendanceDay).SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "date", Value: 1}},
			},
		},
		QueryCollection: {
			{
				Keys: bson.D{{Key: "organization_id", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "created_at", Value: -1}},
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("gagal membuat index untuk %s: %w", coll, err)
		}
	}
	return nil
}

func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
