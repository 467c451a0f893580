package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

const collectionServiceRequests = "service_requests"

type ServiceRequestRepository struct {
	col *mongo.Collection
	ids sequence
}

var _ ports.ServiceRequestRepository = (*ServiceRequestRepository)(nil)

func NewServiceRequestRepository(db *mongo.Database) *ServiceRequestRepository {
	return &ServiceRequestRepository{
		col: db.Collection(collectionServiceRequests),
		ids: newSequence(db, collectionServiceRequests),
	}
}

// Create inserts a new request document and sets its id.
func (r *ServiceRequestRepository) Create(ctx context.Context, s *domain.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	s.ID = id
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}
	return nil
}

func (r *ServiceRequestRepository) FindByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.ServiceRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns the matching requests, newest first.
func (r *ServiceRequestRepository) List(ctx context.Context, f ports.ListServiceRequestsFilter) ([]*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ClientID != 0 {
		filter["client_id"] = f.ClientID
	}
	if f.TechnicianID != 0 {
		filter["technician_id"] = f.TechnicianID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ServiceRequest, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActiveByTechnician groups assigned and in-progress requests by technician.
func (r *ServiceRequestRepository) CountActiveByTechnician(ctx context.Context) (map[int64]int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"technician_id": bson.M{"$exists": true},
			"status":        bson.M{"$in": bson.A{string(domain.StatusAssigned), string(domain.StatusInProgress)}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$technician_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		TechnicianID int64 `bson:"_id"`
		Count        int   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	load := make(map[int64]int, len(rows))
	for _, row := range rows {
		load[row.TechnicianID] = row.Count
	}
	return load, nil
}

// Assign atomically sets the technician of a pending request.
func (r *ServiceRequestRepository) Assign(ctx context.Context, id, technicianID int64) error {
	filter := bson.M{"_id": id, "status": string(domain.StatusPending)}
	update := bson.M{"$set": bson.M{
		"technician_id": technicianID,
		"status":        string(domain.StatusAssigned),
	}}
	return r.conditionalUpdate(ctx, id, filter, update, domain.StatusAssigned)
}

// UpdateStatus atomically applies change if the status still equals change.From.
func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id int64, change ports.StatusChange) error {
	set := bson.M{"status": string(change.To)}
	if change.CompletedAt != nil {
		set["completed_at"] = change.CompletedAt.UTC()
	}
	if change.Warranty {
		set["warranty"] = true
	}
	filter := bson.M{"_id": id, "status": string(change.From)}
	return r.conditionalUpdate(ctx, id, filter, bson.M{"$set": set}, change.To)
}

func (r *ServiceRequestRepository) conditionalUpdate(ctx context.Context, id int64, filter, update bson.M, to domain.ServiceStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, to)
}

// EnsureIndexes creates the indexes used by listings and assignment.
func (r *ServiceRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "technician_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
