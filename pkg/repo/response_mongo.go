package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResponseMongoRepository struct {
	client     *mongo.Client
	db         string
	collection string
}

func NewResponseMongoRepository(client *mongo.Client, db, c string) (*ResponseMongoRepository, error) {
	rep := &ResponseMongoRepository{
		client:     client,
		db:         db,
		collection: c,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mod := mongo.IndexModel{
		Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}},
	}
	if _, err := rep.getCollection().Indexes().CreateOne(ctx, mod); err != nil {
		return nil, errors.Wrap(err, "error creating responses index")
	}
	return rep, nil
}

func (rr *ResponseMongoRepository) CreateResponse(ctx context.Context, response models.FormResponse) (models.FormResponse, error) {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	if response.SubmittedAt == "" {
		response.SubmittedAt = timestamp(time.Now())
	}
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	if _, err := rr.getCollection().InsertOne(ctx, &response); err != nil {
		return response, err
	}
	return response, nil
}

func (rr *ResponseMongoRepository) ListResponses(ctx context.Context, formID string) ([]models.FormResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	cur, err := rr.getCollection().Find(ctx, bson.M{"formId": formID},
		options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	responses := make([]models.FormResponse, 0)
	if err := cur.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (rr *ResponseMongoRepository) getCollection() *mongo.Collection {
	return rr.client.Database(rr.db).Collection(rr.collection)
}
