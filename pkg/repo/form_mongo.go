package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackrejister/form-craft-nexus/pkg/log"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoOpTimeout = 5 * time.Second

type FormMongoRepository struct {
	client     *mongo.Client
	db         string
	collection string
}

func connectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.WithField("module", "repo").Infof("connecting to mongo, uri: %v", uri)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to mongo")
	}
	return client, nil
}

func NewFormMongoRepository(client *mongo.Client, db, c string) (*FormMongoRepository, error) {
	rep := &FormMongoRepository{
		client:     client,
		db:         db,
		collection: c,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mod := mongo.IndexModel{
		Keys:    bson.M{"id": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := rep.getCollection().Indexes().CreateOne(ctx, mod); err != nil {
		return nil, errors.Wrap(err, "error creating forms index")
	}
	return rep, nil
}

func (fr *FormMongoRepository) GetForm(ctx context.Context, id string) (models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	var form models.Form
	err := fr.getCollection().FindOne(ctx, bson.M{"id": id}).Decode(&form)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return form, ErrNotFound
	}
	return form, err
}

func (fr *FormMongoRepository) ListForms(ctx context.Context) ([]models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	cur, err := fr.getCollection().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	forms := make([]models.Form, 0)
	if err := cur.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (fr *FormMongoRepository) CreateForm(ctx context.Context, form models.Form) (models.Form, error) {
	form = prepareNewForm(form, time.Now())
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	if _, err := fr.getCollection().InsertOne(ctx, &form); err != nil {
		return form, err
	}
	return form, nil
}

func (fr *FormMongoRepository) UpdateForm(ctx context.Context, form models.Form) (models.Form, error) {
	existing, err := fr.GetForm(ctx, form.ID)
	if err != nil {
		return form, err
	}
	form = prepareUpdatedForm(existing, form, time.Now())

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	res, err := fr.getCollection().ReplaceOne(ctx, bson.M{"id": form.ID}, &form)
	if err != nil {
		return form, err
	}
	if res.MatchedCount == 0 {
		return form, ErrNotFound
	}
	return form, nil
}

func (fr *FormMongoRepository) DeleteForm(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	res, err := fr.getCollection().DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (fr *FormMongoRepository) SaveIntegration(ctx context.Context, formID string, integration models.FormIntegration) (models.FormIntegration, error) {
	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	now := timestamp(time.Now())

	res, err := fr.getCollection().UpdateOne(ctx,
		bson.M{"id": formID, "integrations.id": integration.ID},
		bson.M{"$set": bson.M{"integrations.$": integration, "updatedAt": now}})
	if err != nil {
		return integration, err
	}
	if res.MatchedCount > 0 {
		return integration, nil
	}

	res, err = fr.getCollection().UpdateOne(ctx,
		bson.M{"id": formID},
		bson.M{"$push": bson.M{"integrations": integration}, "$set": bson.M{"updatedAt": now}})
	if err != nil {
		return integration, err
	}
	if res.MatchedCount == 0 {
		return integration, ErrNotFound
	}
	return integration, nil
}

func (fr *FormMongoRepository) DeleteIntegration(ctx context.Context, formID, integrationID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	res, err := fr.getCollection().UpdateOne(ctx,
		bson.M{"id": formID, "integrations.id": integrationID},
		bson.M{
			"$pull": bson.M{"integrations": bson.M{"id": integrationID}},
			"$set":  bson.M{"updatedAt": timestamp(time.Now())},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (fr *FormMongoRepository) IncrementSubmissions(ctx context.Context, formID string, limit int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	filter := bson.M{"id": formID}
	if limit > 0 {
		filter["submissions"] = bson.M{"$lt": limit}
	}
	var form models.Form
	err := fr.getCollection().FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"submissions": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&form)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if limit <= 0 {
			return 0, ErrNotFound
		}
		n, cerr := fr.getCollection().CountDocuments(ctx, bson.M{"id": formID})
		if cerr != nil {
			return 0, cerr
		}
		if n == 0 {
			return 0, ErrNotFound
		}
		return limit, ErrLimitReached
	}
	if err != nil {
		return 0, err
	}
	return form.Submissions, nil
}

func (fr *FormMongoRepository) getCollection() *mongo.Collection {
	return fr.client.Database(fr.db).Collection(fr.collection)
}
