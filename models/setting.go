package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdminPasswordKey is the config document holding the bcrypt hash of the panel password.
const AdminPasswordKey = "admin_password"

type Setting struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Key   string             `bson:"key" json:"key"`
	Value string             `bson:"value" json:"-"`
}
