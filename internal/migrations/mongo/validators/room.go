package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "name", "capacity", "hotel_id"},
		"properties": bson.M{
			"_id": integerID,
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"capacity": bson.M{
				"bsonType": bson.A{"int", "long"},
				"minimum":  0,
			},
			"hotel_id":   integerID,
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
