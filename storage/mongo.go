package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/utils"
)

const (
	usersCollection    = "users"
	clothingCollection = "clothing"
	outfitsCollection  = "outfits"
)

// MongoStore keeps the wardrobe in MongoDB. It relies on the client set up
// by utils.ConnectMongo.
type MongoStore struct {
	dbName string
	logger *slog.Logger
}

func NewMongoStore(dbName string, logger *slog.Logger) *MongoStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoStore{dbName: dbName, logger: logger.With("component", "mongo_store")}
}

func (s *MongoStore) collection(name string) *mongo.Collection {
	return utils.GetCollection(s.dbName, name)
}

// EnsureIndexes creates the indexes the queries below rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.collection(clothingCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "is_deleted", Value: 1}, {Key: "season", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create clothing index: %w", err)
	}
	_, err = s.collection(outfitsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "date_worn", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create outfits index: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if utils.Client == nil {
		return nil
	}
	return utils.Client.Disconnect(ctx)
}

func (s *MongoStore) EnsureUser(ctx context.Context, username string) (models.User, error) {
	filter := bson.M{"username": username}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        uuid.NewString(),
		"username":   username,
		"created_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	if err := s.collection(usersCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("ensure user: %w", err)
	}
	return user, nil
}

func (s *MongoStore) CreateGarment(ctx context.Context, g *models.Garment) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection(clothingCollection).InsertOne(ctx, g); err != nil {
		return fmt.Errorf("insert garment: %w", err)
	}
	return nil
}

func (s *MongoStore) findGarments(ctx context.Context, filter bson.M) ([]models.Garment, error) {
	filter["is_deleted"] = false
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.collection(clothingCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find garments: %w", err)
	}
	defer cursor.Close(ctx)

	garments := []models.Garment{}
	if err := cursor.All(ctx, &garments); err != nil {
		return nil, fmt.Errorf("decode garments: %w", err)
	}
	return garments, nil
}

func (s *MongoStore) ListGarments(ctx context.Context, username string) ([]models.Garment, error) {
	return s.findGarments(ctx, bson.M{"username": username})
}

func (s *MongoStore) GarmentsByType(ctx context.Context, username string, t models.ClothingType) ([]models.Garment, error) {
	return s.findGarments(ctx, bson.M{"username": username, "type": t})
}

func (s *MongoStore) ActiveGarments(ctx context.Context, username string, season models.Season) ([]models.Garment, error) {
	filter := bson.M{"username": username}
	if season.IsWinter() {
		filter["season"] = models.SeasonWinter
	} else {
		filter["season"] = bson.M{"$ne": models.SeasonWinter}
	}
	return s.findGarments(ctx, filter)
}

func (s *MongoStore) GarmentsByIDs(ctx context.Context, username string, ids []string) ([]models.Garment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.findGarments(ctx, bson.M{"username": username, "_id": bson.M{"$in": ids}})
}

func (s *MongoStore) SoftDeleteGarments(ctx context.Context, username string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.collection(clothingCollection).UpdateMany(ctx,
		bson.M{"username": username, "_id": bson.M{"$in": ids}, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("soft delete garments: %w", err)
	}
	s.logger.Info("garments soft deleted", "username", username, "count", res.ModifiedCount)
	return int(res.ModifiedCount), nil
}

func (s *MongoStore) CreateOutfit(ctx context.Context, o *models.Outfit) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.DateWorn.IsZero() {
		o.DateWorn = time.Now()
	}
	o.DateWorn = o.DateWorn.UTC()
	if _, err := s.collection(outfitsCollection).InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert outfit: %w", err)
	}
	return nil
}

func (s *MongoStore) findOutfits(ctx context.Context, filter bson.M, limit int64) ([]models.Outfit, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date_worn", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := s.collection(outfitsCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find outfits: %w", err)
	}
	defer cursor.Close(ctx)

	outfits := []models.Outfit{}
	if err := cursor.All(ctx, &outfits); err != nil {
		return nil, fmt.Errorf("decode outfits: %w", err)
	}
	return outfits, nil
}

func (s *MongoStore) RecentOutfits(ctx context.Context, username string, limit int) ([]models.Outfit, error) {
	return s.findOutfits(ctx, bson.M{"username": username}, int64(limit))
}

func (s *MongoStore) OutfitsSince(ctx context.Context, username string, since time.Time) ([]models.Outfit, error) {
	return s.findOutfits(ctx, bson.M{"username": username, "date_worn": bson.M{"$gte": since.UTC()}}, 0)
}

func (s *MongoStore) WearHistory(ctx context.Context, username string) ([]models.WornRecord, error) {
	outfits, err := s.findOutfits(ctx, bson.M{"username": username}, 0)
	if err != nil {
		return nil, err
	}
	return models.FlattenWornRecords(outfits), nil
}
