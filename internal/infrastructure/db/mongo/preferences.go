package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grupo8/reparafacil/internal/core/ports"
)

const collectionPreferences = "preferences"

// Preferences keeps every key of a namespace in the values map of a single
// document, so multi-key writes are single-document updates.
//
//	{ _id: <namespace>, values: { auth_token: "...", user_id: "7", ... } }
type Preferences struct {
	col       *mongo.Collection
	namespace string
}

var _ ports.PreferenceStore = (*Preferences)(nil)

func NewPreferences(db *mongo.Database, namespace string) *Preferences {
	return &Preferences{col: db.Collection(collectionPreferences), namespace: namespace}
}

func (p *Preferences) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	projection := bson.M{}
	for _, k := range keys {
		projection["values."+k] = 1
	}
	var doc struct {
		Values map[string]string `bson:"values"`
	}
	err := p.col.FindOne(ctx, bson.M{"_id": p.namespace}, options.FindOne().SetProjection(projection)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find preferences %s: %w", p.namespace, err)
	}
	for _, k := range keys {
		if v, ok := doc.Values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (p *Preferences) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range values {
		set["values."+k] = v
	}
	_, err := p.col.UpdateOne(ctx, bson.M{"_id": p.namespace}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update preferences %s: %w", p.namespace, err)
	}
	return nil
}

func (p *Preferences) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	if _, err := p.col.UpdateOne(ctx, bson.M{"_id": p.namespace}, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("update preferences %s: %w", p.namespace, err)
	}
	return nil
}
