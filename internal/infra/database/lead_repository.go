package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
)

// LeadRepository persists leads in the "leads" collection. updated_at and
// last_contacted_at use $currentDate so they come from the database server's
// clock, not this process.
type LeadRepository struct {
	Collection *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{Collection: db.Collection(CollectionLeads)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	res, err := r.Collection.InsertOne(ctx, lead)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		lead.ID = oid
	}
	return nil
}

// FindAll returns every lead ordered by creation time descending, with
// missing fields defaulted to their neutral values.
func (r *LeadRepository) FindAll(ctx context.Context) ([]entity.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	leads := []entity.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	for i := range leads {
		leads[i].Normalize()
	}
	return leads, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrInvalidLeadID
	}

	lead := &entity.Lead{}
	err = r.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	lead.Normalize()
	return lead, nil
}

// UpdateStatus sets the status and stamps updated_at. Transitioning to
// "contacted" also stamps last_contacted_at; no other transition touches it.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	currentDate := bson.M{"updated_at": true}
	if status == entity.StatusContacted {
		currentDate["last_contacted_at"] = true
	}

	update := bson.M{
		"$set":         bson.M{"status": status},
		"$currentDate": currentDate,
	}
	return r.updateByID(ctx, id, update)
}

func (r *LeadRepository) AddNote(ctx context.Context, id string, note entity.Note) error {
	update := bson.M{
		"$push":        bson.M{"notes": note},
		"$currentDate": bson.M{"updated_at": true},
	}
	return r.updateByID(ctx, id, update)
}

func (r *LeadRepository) DeleteNote(ctx context.Context, id, noteID string) error {
	update := bson.M{
		"$pull":        bson.M{"notes": bson.M{"id": noteID}},
		"$currentDate": bson.M{"updated_at": true},
	}
	return r.updateByID(ctx, id, update)
}

func (r *LeadRepository) AddActionItem(ctx context.Context, id string, item entity.ActionItem) error {
	update := bson.M{
		"$push":        bson.M{"action_items": item},
		"$currentDate": bson.M{"updated_at": true},
	}
	return r.updateByID(ctx, id, update)
}

// SetActionItemCompleted toggles one item in place. A filtered positional
// update touches only the matched element, so two admin sessions editing
// different items on the same lead no longer clobber each other.
func (r *LeadRepository) SetActionItemCompleted(ctx context.Context, id, itemID string, completed bool) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return entity.ErrInvalidLeadID
	}

	update := bson.M{
		"$set":         bson.M{"action_items.$[item].completed": completed},
		"$currentDate": bson.M{"updated_at": true},
	}
	opts := options.UpdateOne().SetArrayFilters([]interface{}{
		bson.M{"item.id": itemID},
	})

	res, err := r.Collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) DeleteActionItem(ctx context.Context, id, itemID string) error {
	update := bson.M{
		"$pull":        bson.M{"action_items": bson.M{"id": itemID}},
		"$currentDate": bson.M{"updated_at": true},
	}
	return r.updateByID(ctx, id, update)
}

// Watch opens a change stream over the whole collection. The feed watcher
// re-queries the full snapshot on every event it delivers.
func (r *LeadRepository) Watch(ctx context.Context) (*mongo.ChangeStream, error) {
	return r.Collection.Watch(ctx, mongo.Pipeline{})
}

func (r *LeadRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return entity.ErrInvalidLeadID
	}

	res, err := r.Collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
