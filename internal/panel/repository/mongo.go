package repository

import (
	"context"
	"time"

	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database. Records keep the
// same string ids the memory store uses so the two are interchangeable.
type MongoStore struct {
	projects  *mongo.Collection
	bots      *mongo.Collection
	users     *mongo.Collection
	documents *mongo.Collection
	models    *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	s := &MongoStore{
		projects:  db.Collection("projects"),
		bots:      db.Collection("bots"),
		users:     db.Collection("users"),
		documents: db.Collection("documents"),
		models:    db.Collection("models"),
	}
	// unique lookups by id; project_id is the grouping key for scoped scans
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.projects.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)})
	s.bots.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "project_id", Value: 1}}, Options: options.Index().SetUnique(true)})
	s.users.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)})
	s.users.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "project_id", Value: 1}}})
	s.documents.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)})
	s.documents.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "project_id", Value: 1}}})
	return s
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)
	out := []T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

func (s *MongoStore) Projects(ctx context.Context) ([]panel.Project, error) {
	cur, err := s.projects.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeAll[panel.Project](ctx, cur)
}

func (s *MongoStore) ProjectName(ctx context.Context, id string) (string, error) {
	var p panel.Project
	if err := s.projects.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrNotFound
		}
		return "", err
	}
	return p.Name, nil
}

func (s *MongoStore) AssignModel(ctx context.Context, projectID, modelID string) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.projects.UpdateOne(ctx, bson.M{"id": projectID},
		bson.M{"$set": bson.M{"model_id": modelID}, "$setOnInsert": bson.M{"name": "Unknown project"}}, opts)
	return err
}

func (s *MongoStore) Bots(ctx context.Context) ([]panel.Bot, error) {
	cur, err := s.bots.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeAll[panel.Bot](ctx, cur)
}

func (s *MongoStore) SetBotActive(ctx context.Context, projectID string, active bool) (*panel.Bot, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b panel.Bot
	err := s.bots.FindOneAndUpdate(ctx, bson.M{"project_id": projectID},
		bson.M{"$set": bson.M{"active": active}}, opts).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *MongoStore) UpsertBot(ctx context.Context, b panel.Bot) (*panel.Bot, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	set := bson.M{
		"project_name": b.ProjectName,
		"token":        b.Token,
		"username":     b.Username,
		"url":          b.URL,
		"first_name":   b.FirstName,
		"active":       b.Active,
		"verified_at":  b.VerifiedAt,
	}
	var out panel.Bot
	err := s.bots.FindOneAndUpdate(ctx, bson.M{"project_id": b.ProjectID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"users_count": b.UsersCount}}, opts).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MongoStore) UsersByProject(ctx context.Context, projectID string) ([]panel.User, error) {
	cur, err := s.users.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	return decodeAll[panel.User](ctx, cur)
}

func (s *MongoStore) CreateUser(ctx context.Context, u *panel.User) error {
	if u.ID == "" {
		u.ID = NewID("usr")
	}
	if u.Status == "" {
		u.Status = panel.UserStatusActive
	}
	u.CreatedAt = time.Now().UTC()
	_, err := s.users.InsertOne(ctx, u)
	return err
}

func (s *MongoStore) UpdateUser(ctx context.Context, id string, patch panel.UserPatch) (*panel.User, error) {
	set := bson.M{}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	} else {
		update["$set"] = bson.M{"id": id}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u panel.User
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) SetUserStatus(ctx context.Context, id, status string) (*panel.User, error) {
	return s.UpdateUser(ctx, id, panel.UserPatch{Status: &status})
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DocumentsByProject(ctx context.Context, projectID string) ([]panel.Document, error) {
	cur, err := s.documents.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	return decodeAll[panel.Document](ctx, cur)
}

func (s *MongoStore) CreateDocument(ctx context.Context, d *panel.Document) error {
	if d.ID == "" {
		d.ID = NewID("doc")
	}
	d.UploadedAt = time.Now().UTC()
	_, err := s.documents.InsertOne(ctx, d)
	return err
}

func (s *MongoStore) GetDocument(ctx context.Context, id string) (*panel.Document, error) {
	var d panel.Document
	if err := s.documents.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, id string) (*panel.Document, error) {
	var d panel.Document
	if err := s.documents.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *MongoStore) Models(ctx context.Context, search string) ([]panel.Model, error) {
	cur, err := s.models.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	all, err := decodeAll[panel.Model](ctx, cur)
	if err != nil {
		return nil, err
	}
	out := make([]panel.Model, 0, len(all))
	for _, m := range all {
		if m.Matches(search) {
			out = append(out, m)
		}
	}
	return out, nil
}
