package requeststore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/ykhdr/dictcrack/internal/messages/request"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const RequestCollection = "requests"

// mongoStore writes through to MongoDB and caches finished requests in memory.
type mongoStore struct {
	m          sync.RWMutex
	cache      map[request.Id]*request.Info
	collection *mongo.Collection
}

func NewMongoStore(database *mongo.Database) RequestStore {
	return &mongoStore{
		cache:      make(map[request.Id]*request.Info),
		collection: database.Collection(RequestCollection),
	}
}

func (s *mongoStore) Get(ctx context.Context, id request.Id) (*request.Info, error) {
	s.m.RLock()
	req, ok := s.cache[id]
	s.m.RUnlock()
	if ok {
		return req.Copy(), nil
	}
	var r request.Info
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find request")
	}
	if r.Done() {
		s.m.Lock()
		s.cache[id] = r.Copy()
		s.m.Unlock()
	}
	return &r, nil
}

func (s *mongoStore) Save(ctx context.Context, req *request.Info) error {
	_, err := s.collection.InsertOne(ctx, req)
	if mongo.IsDuplicateKeyError(err) {
		err = s.update(ctx, req)
	}
	if err != nil {
		return errors.Wrap(err, "save request")
	}
	s.m.Lock()
	defer s.m.Unlock()
	if req.Done() {
		s.cache[req.ID] = req.Copy()
	} else {
		delete(s.cache, req.ID)
	}
	return nil
}

func (s *mongoStore) update(ctx context.Context, req *request.Info) error {
	update := bson.M{
		"$set": bson.M{
			"status":       req.Status,
			"request":      req.Request,
			"found":        req.Found,
			"candidate":    req.Candidate,
			"attempts":     req.Attempts,
			"error_reason": req.ErrorReason,
			"finished_at":  req.FinishedAt,
		},
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": req.ID}, update)
	if err != nil {
		return errors.Wrap(err, "update request")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, id request.Id) error {
	s.m.Lock()
	delete(s.cache, id)
	s.m.Unlock()
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete request")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
